package notify

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Arolejosia/kanban-fullstack/internal/domain"
)

type Category string

const (
	CategoryReminder Category = "reminder"
	CategoryOverdue  Category = "overdue"
	CategoryDueSoon  Category = "due-soon"
)

// Notification is ephemeral UI state derived from the task set. It is
// never persisted.
type Notification struct {
	TaskID   int64    `json:"task_id"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

type key struct {
	taskID   int64
	category Category
}

// Evaluator maintains the working set of notifications for one session.
// The set is recomputed on every pass, so a dismissed entry reappears on
// the next pass in which its condition still holds. Safe for concurrent
// use by the poller and the dismiss path.
type Evaluator struct {
	mu     sync.Mutex
	active map[key]Notification
}

func NewEvaluator() *Evaluator {
	return &Evaluator{active: make(map[key]Notification)}
}

// Evaluate recomputes the working set from the given task snapshot.
// A single task can emit a reminder and an overdue/due-soon entry in the
// same pass; the two conditions are independent.
func (e *Evaluator) Evaluate(tasks []*domain.Task, now time.Time) {
	next := make(map[key]Notification)

	for _, t := range tasks {
		if t.Status == domain.StatusDone {
			continue
		}

		if t.ReminderDate != nil && !t.ReminderSent && !t.ReminderDate.After(now) {
			add(next, t.ID, CategoryReminder, fmt.Sprintf("Reminder: %s", t.Title))
		}

		if t.DueDate != nil {
			switch diff := t.DueDate.Sub(now); {
			case diff < 0:
				add(next, t.ID, CategoryOverdue, fmt.Sprintf("Overdue: %s", t.Title))
			case diff > 0 && diff <= domain.DueSoonWindow:
				add(next, t.ID, CategoryDueSoon, fmt.Sprintf("Due in less than 24 hours: %s", t.Title))
			}
		}
	}

	e.mu.Lock()
	e.active = next
	e.mu.Unlock()
}

// Dismiss removes a single (task, category) entry from the working set.
func (e *Evaluator) Dismiss(taskID int64, category Category) {
	e.mu.Lock()
	delete(e.active, key{taskID: taskID, category: category})
	e.mu.Unlock()
}

// Active returns a stable snapshot of the working set, ordered by task
// id then category.
func (e *Evaluator) Active() []Notification {
	e.mu.Lock()
	out := make([]Notification, 0, len(e.active))
	for _, n := range e.active {
		out = append(out, n)
	}
	e.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].TaskID != out[j].TaskID {
			return out[i].TaskID < out[j].TaskID
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func add(set map[key]Notification, taskID int64, category Category, msg string) {
	set[key{taskID: taskID, category: category}] = Notification{
		TaskID:   taskID,
		Category: category,
		Message:  msg,
	}
}
