package domain

import (
	"errors"
	"time"
)

var ErrTaskNotFound = errors.New("task not found")

// ValidationError carries a client-facing message for malformed input.
// Field checks run in a fixed order, so the first failure wins.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DueSoonWindow is the inclusive interval from now within which a task
// counts as "due soon".
const DueSoonWindow = 24 * time.Hour

type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Status      Status
	Priority    Priority

	DueDate      *time.Time
	ReminderDate *time.Time
	ReminderSent bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
