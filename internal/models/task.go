package models

// Task is a row of the tasks table. ID is the surrogate key and is never
// shown to users; they address tasks by position instead (see TaskView).
type Task struct {
	ID          uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	Description string  `json:"description" gorm:"not null"`
	Completed   bool    `json:"completed" gorm:"not null;default:false"`
	Due         *string `json:"due"`
}

func (Task) TableName() string {
	return "tasks"
}

// HasDue reports whether the task carries a due date.
func (t Task) HasDue() bool {
	return t.Due != nil
}
