package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"todo-cli/internal/repositories"
	"todo-cli/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService services.TaskService
	log         *zap.Logger
}

func NewTaskHandler(taskService services.TaskService, log *zap.Logger) *TaskHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskHandler{taskService: taskService, log: log}
}

// RegisterRoutes mounts the task endpoints under group.
func (h *TaskHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/tasks", h.ListTasks)
	group.POST("/tasks", h.CreateTask)
	group.POST("/tasks/clean", h.CleanTasks)
	group.POST("/tasks/:n/done", h.CompleteTask)
	group.DELETE("/tasks/:n", h.RemoveTask)
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks()
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input services.AddTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.AddTask(input)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Added task: %s", task.Description),
		"task":    task,
	})
}

func (h *TaskHandler) CompleteTask(c *gin.Context) {
	number, ok := h.taskNumber(c)
	if !ok {
		return
	}
	if err := h.taskService.CompleteTask(number); err != nil {
		h.handleTaskError(c, err, number)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Marked task #%d as done", number)})
}

func (h *TaskHandler) RemoveTask(c *gin.Context) {
	number, ok := h.taskNumber(c)
	if !ok {
		return
	}
	if err := h.taskService.RemoveTask(number); err != nil {
		h.handleTaskError(c, err, number)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Removed task #%d", number)})
}

func (h *TaskHandler) CleanTasks(c *gin.Context) {
	removed, err := h.taskService.CleanTasks()
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Cleared %d completed task(s)", removed),
		"removed": removed,
	})
}

func (h *TaskHandler) taskNumber(c *gin.Context) (int, bool) {
	number, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidTaskNumber.Error()})
		return 0, false
	}
	return number, true
}

func (h *TaskHandler) handleTaskError(c *gin.Context, err error, number ...int) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, repositories.ErrTaskNotFound):
		msg := "task not found"
		if len(number) > 0 {
			msg = fmt.Sprintf("Task #%d not found", number[0])
		}
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	case errors.Is(err, services.ErrEmptyDescription),
		errors.Is(err, services.ErrInvalidDueDate),
		errors.Is(err, services.ErrInvalidTaskNumber),
		errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("task request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to process task request",
		})
	}
}
