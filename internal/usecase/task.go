package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Arolejosia/kanban-fullstack/internal/domain"
	"github.com/Arolejosia/kanban-fullstack/internal/repository"
)

type TaskUsecase struct {
	repo repository.TaskRepository
}

func NewTaskUsecase(repo repository.TaskRepository) *TaskUsecase {
	return &TaskUsecase{repo: repo}
}

type CreateTaskInput struct {
	UserID       int64
	Title        string
	Description  string
	Priority     string
	DueDate      string
	ReminderDate string
}

type UpdateTaskInput struct {
	UserID       int64
	TaskID       int64
	Title        string
	Description  string
	Status       string
	Priority     string
	DueDate      string
	ReminderDate string
}

// CreateTask validates its input and persists a new task in the todo
// column. Status is not client-settable on create.
func (u *TaskUsecase) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewValidationError("title required")
	}

	priority := domain.PriorityMedium
	if input.Priority != "" {
		priority = domain.Priority(input.Priority)
		if !priority.Valid() {
			return nil, domain.NewValidationError("invalid priority")
		}
	}

	dueDate, err := parseOptionalDate(input.DueDate, "invalid due date")
	if err != nil {
		return nil, err
	}
	reminderDate, err := parseOptionalDate(input.ReminderDate, "invalid reminder date")
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		UserID:       input.UserID,
		Title:        title,
		Description:  input.Description,
		Status:       domain.StatusTodo,
		Priority:     priority,
		DueDate:      dueDate,
		ReminderDate: reminderDate,
	}

	created, err := u.repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

// ListTasks returns every task owned by userID in creation order.
func (u *TaskUsecase) ListTasks(ctx context.Context, userID int64) ([]*domain.Task, error) {
	tasks, err := u.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask is a full replace. Field checks run in a fixed order:
// title, status, priority, due date, reminder date. Only then is
// the store touched, so a request failing two checks always reports the
// earlier one and an unowned task id is only revealed as not-found
// after its payload is well formed.
func (u *TaskUsecase) UpdateTask(ctx context.Context, input UpdateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewValidationError("title required")
	}

	status := domain.Status(input.Status)
	if !status.Valid() {
		return nil, domain.NewValidationError("invalid status")
	}

	priority := domain.PriorityMedium
	if input.Priority != "" {
		priority = domain.Priority(input.Priority)
		if !priority.Valid() {
			return nil, domain.NewValidationError("invalid priority")
		}
	}

	dueDate, err := parseOptionalDate(input.DueDate, "invalid due date")
	if err != nil {
		return nil, err
	}
	reminderDate, err := parseOptionalDate(input.ReminderDate, "invalid reminder date")
	if err != nil {
		return nil, err
	}

	updated, err := u.repo.Update(ctx, input.TaskID, input.UserID, repository.UpdateTaskInput{
		Title:        title,
		Description:  input.Description,
		Status:       status,
		Priority:     priority,
		DueDate:      dueDate,
		ReminderDate: reminderDate,
	})
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

func (u *TaskUsecase) DeleteTask(ctx context.Context, taskID, userID int64) error {
	if err := u.repo.Delete(ctx, taskID, userID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ListDueSoon returns not-done tasks due within the inclusive window
// [now, now+24h], soonest first.
func (u *TaskUsecase) ListDueSoon(ctx context.Context, userID int64) ([]*domain.Task, error) {
	tasks, err := u.repo.ListDueSoon(ctx, userID, time.Now(), domain.DueSoonWindow)
	if err != nil {
		return nil, fmt.Errorf("list due soon: %w", err)
	}
	return tasks, nil
}

// ListPendingReminders returns not-done tasks whose reminder has come
// due and has not yet been delivered.
func (u *TaskUsecase) ListPendingReminders(ctx context.Context, userID int64) ([]*domain.Task, error) {
	tasks, err := u.repo.ListPendingReminders(ctx, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list pending reminders: %w", err)
	}
	return tasks, nil
}

// MarkReminderSent flips the reminder flag to true. Repeated calls
// succeed and leave the flag true; nothing ever flips it back.
func (u *TaskUsecase) MarkReminderSent(ctx context.Context, taskID, userID int64) (*domain.Task, error) {
	task, err := u.repo.MarkReminderSent(ctx, taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("mark reminder sent: %w", err)
	}
	return task, nil
}

func parseOptionalDate(value, invalidMsg string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, domain.NewValidationError(invalidMsg)
	}
	return &t, nil
}
