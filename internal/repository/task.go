package repository

import (
	"context"
	"time"

	"github.com/Arolejosia/kanban-fullstack/internal/domain"
)

// UpdateTaskInput is a full replace of every mutable task field.
type UpdateTaskInput struct {
	Title        string
	Description  string
	Status       domain.Status
	Priority     domain.Priority
	DueDate      *time.Time
	ReminderDate *time.Time
}

// PendingReminder pairs a task with its owner's email for delivery.
type PendingReminder struct {
	Task       domain.Task
	OwnerEmail string
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// List returns every task owned by userID in creation order (id asc).
	List(ctx context.Context, userID int64) ([]*domain.Task, error)
	// Update replaces all mutable fields of the owned task.
	// Returns domain.ErrTaskNotFound if no row is owned by userID,
	// including when a concurrent delete wins the race.
	Update(ctx context.Context, id, userID int64, input UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, id, userID int64) error
	// ListDueSoon returns owned, not-done tasks with a due date inside
	// [now, now+window], ordered by due date ascending.
	ListDueSoon(ctx context.Context, userID int64, now time.Time, window time.Duration) ([]*domain.Task, error)
	// ListPendingReminders returns owned, not-done tasks whose reminder
	// date has passed and has not been sent, ordered by reminder date.
	ListPendingReminders(ctx context.Context, userID int64, now time.Time) ([]*domain.Task, error)
	MarkReminderSent(ctx context.Context, id, userID int64) (*domain.Task, error)

	// AllPendingReminders spans every user; used by the notifier process.
	AllPendingReminders(ctx context.Context, now time.Time, limit int) ([]*PendingReminder, error)
	// AllDueSoon spans every user; used for the daily digest.
	AllDueSoon(ctx context.Context, now time.Time, window time.Duration) ([]*PendingReminder, error)
}
