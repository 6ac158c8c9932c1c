package notifier

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Arolejosia/kanban-fullstack/internal/domain"
	"github.com/Arolejosia/kanban-fullstack/internal/repository"
)

type fakeTaskRepo struct {
	repository.TaskRepository

	allPendingReminders func(ctx context.Context, now time.Time, limit int) ([]*repository.PendingReminder, error)
	markReminderSent    func(ctx context.Context, id, userID int64) (*domain.Task, error)
}

func (f *fakeTaskRepo) AllPendingReminders(ctx context.Context, now time.Time, limit int) ([]*repository.PendingReminder, error) {
	return f.allPendingReminders(ctx, now, limit)
}

func (f *fakeTaskRepo) MarkReminderSent(ctx context.Context, id, userID int64) (*domain.Task, error) {
	return f.markReminderSent(ctx, id, userID)
}

type sentEmail struct {
	to      string
	subject string
}

type fakeSender struct {
	sent    []sentEmail
	failFor string // recipient whose sends fail
}

func (f *fakeSender) Send(_ context.Context, to, subject, _ string) error {
	if to == f.failFor {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject})
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func pendingFor(id int64, title, owner string) *repository.PendingReminder {
	return &repository.PendingReminder{
		Task:       domain.Task{ID: id, UserID: 1, Title: title},
		OwnerEmail: owner,
	}
}

func TestSweep_SendsAndMarks(t *testing.T) {
	var marked []int64
	repo := &fakeTaskRepo{
		allPendingReminders: func(_ context.Context, _ time.Time, limit int) ([]*repository.PendingReminder, error) {
			if limit != reminderBatchSize {
				t.Errorf("limit = %d, want %d", limit, reminderBatchSize)
			}
			return []*repository.PendingReminder{
				pendingFor(1, "Renew TLS certificate", "a@example.com"),
				pendingFor(2, "File expense report", "b@example.com"),
			}, nil
		},
		markReminderSent: func(_ context.Context, id, _ int64) (*domain.Task, error) {
			marked = append(marked, id)
			return &domain.Task{ID: id, ReminderSent: true}, nil
		},
	}
	sender := &fakeSender{}

	m := NewMailer(repo, sender, testLogger(), time.Minute)
	m.sweep(context.Background())

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(sender.sent))
	}
	if sender.sent[0].subject != "Reminder: Renew TLS certificate" {
		t.Errorf("subject = %q", sender.sent[0].subject)
	}
	if len(marked) != 2 || marked[0] != 1 || marked[1] != 2 {
		t.Errorf("marked = %v, want [1 2]", marked)
	}
}

func TestSweep_DeliveryFailureLeavesFlagUnset(t *testing.T) {
	var marked []int64
	repo := &fakeTaskRepo{
		allPendingReminders: func(_ context.Context, _ time.Time, _ int) ([]*repository.PendingReminder, error) {
			return []*repository.PendingReminder{
				pendingFor(1, "Renew TLS certificate", "down@example.com"),
				pendingFor(2, "File expense report", "ok@example.com"),
			}, nil
		},
		markReminderSent: func(_ context.Context, id, _ int64) (*domain.Task, error) {
			marked = append(marked, id)
			return &domain.Task{ID: id, ReminderSent: true}, nil
		},
	}
	sender := &fakeSender{failFor: "down@example.com"}

	m := NewMailer(repo, sender, testLogger(), time.Minute)
	m.sweep(context.Background())

	// The failed task stays unmarked and will be retried next sweep.
	if len(marked) != 1 || marked[0] != 2 {
		t.Errorf("marked = %v, want [2]", marked)
	}
	if len(sender.sent) != 1 || sender.sent[0].to != "ok@example.com" {
		t.Errorf("sent = %v", sender.sent)
	}
}

func TestSweep_ListErrorSendsNothing(t *testing.T) {
	repo := &fakeTaskRepo{
		allPendingReminders: func(_ context.Context, _ time.Time, _ int) ([]*repository.PendingReminder, error) {
			return nil, errors.New("connection refused")
		},
	}
	sender := &fakeSender{}

	m := NewMailer(repo, sender, testLogger(), time.Minute)
	m.sweep(context.Background())

	if len(sender.sent) != 0 {
		t.Errorf("sent = %v, want none", sender.sent)
	}
}

func TestReminderBody(t *testing.T) {
	due := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	body := reminderBody("Renew TLS certificate", "Expires soon", &due)
	for _, want := range []string{"Renew TLS certificate", "Expires soon", "Due:"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}

	if strings.Contains(reminderBody("Quick task", "", nil), "Due:") {
		t.Error("body should omit due line when no due date")
	}
}
