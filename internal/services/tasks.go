package services

import (
	"errors"
	"fmt"
	"strings"

	"todo-cli/internal/duedate"
	"todo-cli/internal/models"
	"todo-cli/internal/repositories"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyDescription  = errors.New("task description is empty")
	ErrInvalidDueDate    = errors.New("invalid due date format, use YYYY-MM-DD or YYYY-MM-DD HH:MM")
	ErrInvalidTaskNumber = errors.New("invalid task number")
)

// TaskStore is the persistence contract the service needs. Positions are
// 0-based offsets into the canonical ordering.
type TaskStore interface {
	Add(description string, due *string) (*models.Task, error)
	ListOrdered() ([]models.Task, error)
	MarkDone(position int) error
	Remove(position int) error
	PurgeCompleted() (int64, error)
	Reset() error
}

// TaskService is what the command surface and the HTTP API call. Task
// numbers are the 1-based indices users see in listings.
type TaskService interface {
	AddTask(input AddTaskInput) (models.Task, error)
	ListTasks() ([]models.TaskView, error)
	CompleteTask(number int) error
	RemoveTask(number int) error
	CleanTasks() (int64, error)
	Reset() error
}

// AddTaskInput carries a raw add request. Due is user input and may be empty.
type AddTaskInput struct {
	Description string `json:"description" validate:"required"`
	Due         string `json:"due"`
}

type taskService struct {
	store    TaskStore
	validate *validator.Validate
}

func NewTaskService(store TaskStore) TaskService {
	return &taskService{
		store:    store,
		validate: validator.New(),
	}
}

var (
	_ TaskStore   = (*repositories.TaskRepository)(nil)
	_ TaskService = (*taskService)(nil)
)

func (s *taskService) AddTask(input AddTaskInput) (models.Task, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "required" {
			return models.Task{}, ErrEmptyDescription
		}
		return models.Task{}, fmt.Errorf("invalid task: %w", err)
	}

	var due *string
	if strings.TrimSpace(input.Due) != "" {
		canonical, ok := duedate.Normalize(input.Due)
		if !ok {
			return models.Task{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, input.Due)
		}
		due = &canonical
	}

	task, err := s.store.Add(input.Description, due)
	if err != nil {
		return models.Task{}, err
	}
	return *task, nil
}

func (s *taskService) ListTasks() ([]models.TaskView, error) {
	tasks, err := s.store.ListOrdered()
	if err != nil {
		return nil, err
	}
	return models.Project(tasks), nil
}

func (s *taskService) CompleteTask(number int) error {
	position, err := toPosition(number)
	if err != nil {
		return err
	}
	return s.store.MarkDone(position)
}

func (s *taskService) RemoveTask(number int) error {
	position, err := toPosition(number)
	if err != nil {
		return err
	}
	return s.store.Remove(position)
}

func (s *taskService) CleanTasks() (int64, error) {
	return s.store.PurgeCompleted()
}

func (s *taskService) Reset() error {
	return s.store.Reset()
}

// toPosition converts a user-facing task number to a 0-based position.
func toPosition(number int) (int, error) {
	if number < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTaskNumber, number)
	}
	return number - 1, nil
}
