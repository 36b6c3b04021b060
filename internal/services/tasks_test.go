package services_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"todo-cli/internal/database"
	"todo-cli/internal/models"
	"todo-cli/internal/repositories"
	"todo-cli/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Add(description string, due *string) (*models.Task, error) {
	args := m.Called(description, due)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func (m *MockTaskStore) ListOrdered() ([]models.Task, error) {
	args := m.Called()
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskStore) MarkDone(position int) error {
	return m.Called(position).Error(0)
}

func (m *MockTaskStore) Remove(position int) error {
	return m.Called(position).Error(0)
}

func (m *MockTaskStore) PurgeCompleted() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskStore) Reset() error {
	return m.Called().Error(0)
}

func strPtr(s string) *string { return &s }

func TestAddTask_NormalizesDue(t *testing.T) {
	store := new(MockTaskStore)
	store.On("Add", "Pay rent", strPtr("2025-05-15 09:05")).
		Return(&models.Task{ID: 1, Description: "Pay rent", Due: strPtr("2025-05-15 09:05")}, nil)

	task, err := services.NewTaskService(store).AddTask(services.AddTaskInput{
		Description: "  Pay rent ",
		Due:         "2025-05-15 9:05",
	})

	require.NoError(t, err)
	assert.Equal(t, "Pay rent", task.Description)
	store.AssertExpectations(t)
}

func TestAddTask_NoDue(t *testing.T) {
	store := new(MockTaskStore)
	store.On("Add", "Call Alice", (*string)(nil)).
		Return(&models.Task{ID: 2, Description: "Call Alice"}, nil)

	_, err := services.NewTaskService(store).AddTask(services.AddTaskInput{Description: "Call Alice"})

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestAddTask_ValidationFailuresNeverReachStore(t *testing.T) {
	tests := []struct {
		name    string
		input   services.AddTaskInput
		wantErr error
	}{
		{"bad due date", services.AddTaskInput{Description: "Buy milk", Due: "March 1st"}, services.ErrInvalidDueDate},
		{"empty description", services.AddTaskInput{Description: ""}, services.ErrEmptyDescription},
		{"blank description", services.AddTaskInput{Description: "   "}, services.ErrEmptyDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockTaskStore)

			_, err := services.NewTaskService(store).AddTask(tt.input)

			assert.ErrorIs(t, err, tt.wantErr)
			store.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		})
	}
}

func TestAddTask_LongDescriptionIsStored(t *testing.T) {
	long := strings.Repeat("x", 5000)
	store := new(MockTaskStore)
	store.On("Add", long, (*string)(nil)).Return(&models.Task{ID: 1, Description: long}, nil)

	task, err := services.NewTaskService(store).AddTask(services.AddTaskInput{Description: long})

	require.NoError(t, err)
	assert.Equal(t, long, task.Description)
	store.AssertExpectations(t)
}

func TestCompleteAndRemove_TranslateNumbers(t *testing.T) {
	store := new(MockTaskStore)
	store.On("MarkDone", 0).Return(nil)
	store.On("Remove", 2).Return(repositories.ErrTaskNotFound)
	service := services.NewTaskService(store)

	assert.NoError(t, service.CompleteTask(1))
	assert.ErrorIs(t, service.RemoveTask(3), repositories.ErrTaskNotFound)
	store.AssertExpectations(t)
}

func TestCompleteAndRemove_RejectNonPositiveNumbers(t *testing.T) {
	store := new(MockTaskStore)
	service := services.NewTaskService(store)

	for _, n := range []int{0, -1} {
		assert.ErrorIs(t, service.CompleteTask(n), services.ErrInvalidTaskNumber)
		assert.ErrorIs(t, service.RemoveTask(n), services.ErrInvalidTaskNumber)
	}
	store.AssertNotCalled(t, "MarkDone", mock.Anything)
	store.AssertNotCalled(t, "Remove", mock.Anything)
}

func TestListTasks_PropagatesStorageError(t *testing.T) {
	storageErr := errors.New("disk I/O error")
	store := new(MockTaskStore)
	store.On("ListOrdered").Return(nil, storageErr)

	_, err := services.NewTaskService(store).ListTasks()

	assert.ErrorIs(t, err, storageErr)
}

func TestTaskService_WithStore(t *testing.T) {
	config := database.DefaultPoolConfig()
	config.Path = filepath.Join(t.TempDir(), "todo.db")
	repo, err := repositories.Open(config)
	require.NoError(t, err)
	defer repo.Close()

	service := services.NewTaskService(repo)

	for _, in := range []services.AddTaskInput{
		{Description: "Buy milk", Due: "2025-06-01"},
		{Description: "Call Alice"},
		{Description: "Pay rent", Due: "2025-05-15"},
	} {
		_, err := service.AddTask(in)
		require.NoError(t, err)
	}

	require.NoError(t, service.CompleteTask(2))

	views, err := service.ListTasks()
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "Pay rent", views[0].Description)
	assert.Equal(t, "Buy milk", views[1].Description)
	assert.True(t, views[1].Completed)
	assert.Equal(t, 3, views[2].Idx)

	purged, err := service.CleanTasks()
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	views, err = service.ListTasks()
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Call Alice", views[1].Description)
	assert.Equal(t, 2, views[1].Idx)

	assert.ErrorIs(t, service.CompleteTask(3), repositories.ErrTaskNotFound)
}
