package models

// TaskView is the display record handed to renderers. Idx is the 1-based
// rank of the task in the canonical ordering at read time; it is recomputed
// on every read and can shift between invocations.
type TaskView struct {
	Idx         int     `json:"idx" yaml:"idx"`
	Description string  `json:"description" yaml:"description"`
	Completed   bool    `json:"completed" yaml:"completed"`
	Due         *string `json:"due" yaml:"due"`
}

// Project numbers rows that are already in canonical order.
func Project(rows []Task) []TaskView {
	views := make([]TaskView, 0, len(rows))
	for i, row := range rows {
		view := TaskView{
			Idx:         i + 1,
			Description: row.Description,
			Completed:   row.Completed,
		}
		if row.HasDue() {
			due := *row.Due
			view.Due = &due
		}
		views = append(views, view)
	}
	return views
}
