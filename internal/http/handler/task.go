package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Arolejosia/kanban-fullstack/internal/domain"
	"github.com/Arolejosia/kanban-fullstack/internal/usecase"
	"github.com/gin-gonic/gin"
)

// taskUsecaser is the subset of TaskUsecase the handler needs.
type taskUsecaser interface {
	CreateTask(ctx context.Context, input usecase.CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, userID int64) ([]*domain.Task, error)
	UpdateTask(ctx context.Context, input usecase.UpdateTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, taskID, userID int64) error
	ListDueSoon(ctx context.Context, userID int64) ([]*domain.Task, error)
	ListPendingReminders(ctx context.Context, userID int64) ([]*domain.Task, error)
	MarkReminderSent(ctx context.Context, taskID, userID int64) (*domain.Task, error)
}

type TaskHandler struct {
	taskUsecase taskUsecaser
	logger      *slog.Logger
}

func NewTaskHandler(taskUsecase taskUsecaser, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase, logger: logger.With("component", "task_handler")}
}

type createTaskRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	DueDate      string `json:"due_date"`
	ReminderDate string `json:"reminder_date"`
}

type updateTaskRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	DueDate      string `json:"due_date"`
	ReminderDate string `json:"reminder_date"`
}

// taskResponse never carries the owner id; ownership is implied by the
// token the caller presented.
type taskResponse struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Status         domain.Status   `json:"status"`
	Priority       domain.Priority `json:"priority"`
	DueDate        *time.Time      `json:"due_date"`
	ReminderDate   *time.Time      `json:"reminder_date"`
	IsReminderSent bool            `json:"is_reminder_sent"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		DueDate:        t.DueDate,
		ReminderDate:   t.ReminderDate,
		IsReminderSent: t.ReminderSent,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func toTaskList(tasks []*domain.Task) []taskResponse {
	items := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		items[i] = toTaskResponse(t)
	}
	return items
}

// GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.taskUsecase.ListTasks(c.Request.Context(), c.GetInt64("userID"))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list tasks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toTaskList(tasks))
}

// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.CreateTask(c.Request.Context(), usecase.CreateTaskInput{
		UserID:       c.GetInt64("userID"),
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		ReminderDate: req.ReminderDate,
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.UpdateTask(c.Request.Context(), usecase.UpdateTaskInput{
		UserID:       c.GetInt64("userID"),
		TaskID:       taskID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		ReminderDate: req.ReminderDate,
	})
	if err != nil {
		switch {
		case isValidation(c, err):
		case errors.Is(err, domain.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
		default:
			h.logger.ErrorContext(c.Request.Context(), "update task", "task_id", taskID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	err := h.taskUsecase.DeleteTask(c.Request.Context(), taskID, c.GetInt64("userID"))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete task", "task_id", taskID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Status(http.StatusNoContent)
}

// GET /api/tasks/due-soon
func (h *TaskHandler) ListDueSoon(c *gin.Context) {
	tasks, err := h.taskUsecase.ListDueSoon(c.Request.Context(), c.GetInt64("userID"))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list due soon", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toTaskList(tasks))
}

// GET /api/tasks/reminders
func (h *TaskHandler) ListReminders(c *gin.Context) {
	tasks, err := h.taskUsecase.ListPendingReminders(c.Request.Context(), c.GetInt64("userID"))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list reminders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toTaskList(tasks))
}

// POST /api/tasks/:id/mark-reminder-sent
func (h *TaskHandler) MarkReminderSent(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskUsecase.MarkReminderSent(c.Request.Context(), taskID, c.GetInt64("userID"))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "mark reminder sent", "task_id", taskID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// taskIDParam parses :id. A non-numeric id matches no task, so it gets
// the same 404 an unowned id would.
func taskIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
		return 0, false
	}
	return id, true
}

func isValidation(c *gin.Context, err error) bool {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
		return true
	}
	return false
}
