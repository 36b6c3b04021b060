package repositories

import (
	"errors"
	"fmt"
	"os"

	"todo-cli/internal/database"
	"todo-cli/internal/models"

	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

// canonicalOrder is the single ordering used for listing and for resolving
// positions: dated tasks chronologically, then undated ones, ties by id.
// datetime() accepts both canonical due forms.
const canonicalOrder = "due IS NULL, datetime(due) ASC, id ASC"

// TaskRepository owns the tasks table of one store file.
type TaskRepository struct {
	pool *database.DatabasePool
}

// Open opens the store described by config, creating the file and the
// current schema when absent. Opening an initialized store leaves its rows
// untouched.
func Open(config *database.PoolConfig) (*TaskRepository, error) {
	pool, err := database.NewDatabasePool(config)
	if err != nil {
		return nil, err
	}

	if err := ensureSchema(pool.DB); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &TaskRepository{pool: pool}, nil
}

// Pool exposes the underlying connection for health checks.
func (r *TaskRepository) Pool() *database.DatabasePool {
	return r.pool
}

func (r *TaskRepository) db() (*gorm.DB, error) {
	if r.pool == nil || r.pool.DB == nil {
		return nil, errors.New("task store is closed")
	}
	return r.pool.DB, nil
}

// Add inserts an open task. due must already be canonical or nil.
func (r *TaskRepository) Add(description string, due *string) (*models.Task, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	task := &models.Task{Description: description, Due: due}
	if err := db.Create(task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// ListOrdered returns every task in canonical order.
func (r *TaskRepository) ListOrdered() ([]models.Task, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := db.Order(canonicalOrder).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// MarkDone completes the task at the 0-based position.
func (r *TaskRepository) MarkDone(position int) error {
	return r.atPosition(position, func(tx *gorm.DB, id uint) error {
		result := tx.Model(&models.Task{}).Where("id = ?", id).Update("completed", true)
		if result.Error != nil {
			return fmt.Errorf("failed to complete task: %w", result.Error)
		}
		return nil
	})
}

// Remove deletes the task at the 0-based position.
func (r *TaskRepository) Remove(position int) error {
	return r.atPosition(position, func(tx *gorm.DB, id uint) error {
		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

// PurgeCompleted deletes every completed task and reports how many went.
func (r *TaskRepository) PurgeCompleted() (int64, error) {
	db, err := r.db()
	if err != nil {
		return 0, err
	}

	result := db.Where("completed = ?", true).Delete(&models.Task{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge completed tasks: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// atPosition resolves position against a fresh read of the canonical
// ordering and applies fn to the id found there, in one transaction.
func (r *TaskRepository) atPosition(position int, fn func(tx *gorm.DB, id uint) error) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	if position < 0 {
		return ErrTaskNotFound
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		err := tx.Select("id").Order(canonicalOrder).Offset(position).Take(&task).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to resolve task position %d: %w", position, err)
		}
		return fn(tx, task.ID)
	})
}

// Close releases the store file.
func (r *TaskRepository) Close() error {
	if r.pool == nil {
		return nil
	}
	return r.pool.Close()
}

// Reset closes the store and deletes its file together with SQLite's side
// files. The repository is unusable afterwards.
func (r *TaskRepository) Reset() error {
	path := ""
	if r.pool != nil {
		path = r.pool.Path()
	}

	if err := r.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return RemoveFiles(path)
}

// RemoveFiles deletes a store file and its side files without opening it,
// so stores with an unsupported schema can still be discarded. Missing files
// are not an error.
func RemoveFiles(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}

	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}
