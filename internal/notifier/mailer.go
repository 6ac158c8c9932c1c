// Package notifier delivers reminder and digest emails out of band.
// It runs as its own process (cmd/notifier) against the shared store.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Arolejosia/kanban-fullstack/internal/email"
	"github.com/Arolejosia/kanban-fullstack/internal/metrics"
	"github.com/Arolejosia/kanban-fullstack/internal/repository"
)

const reminderBatchSize = 100

// Mailer periodically sweeps for due, unsent reminders and emails the
// owner. The sent flag is only flipped after a successful send, so a
// delivery failure retries on the next sweep.
type Mailer struct {
	repo     repository.TaskRepository
	sender   email.Sender
	logger   *slog.Logger
	interval time.Duration
}

func NewMailer(repo repository.TaskRepository, sender email.Sender, logger *slog.Logger, interval time.Duration) *Mailer {
	return &Mailer{
		repo:     repo,
		sender:   sender,
		logger:   logger.With("component", "reminder_mailer"),
		interval: interval,
	}
}

func (m *Mailer) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("reminder mailer started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("reminder mailer shut down")
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *Mailer) sweep(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.NotifierCycleDuration.Observe(time.Since(start).Seconds())
	}()

	pending, err := m.repo.AllPendingReminders(ctx, start, reminderBatchSize)
	if err != nil {
		m.logger.Error("list pending reminders", "error", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	m.logger.Info("sending reminders", "count", len(pending))

	for _, pr := range pending {
		task := pr.Task
		subject := fmt.Sprintf("Reminder: %s", task.Title)
		body := reminderBody(task.Title, task.Description, task.DueDate)

		if err := m.sender.Send(ctx, pr.OwnerEmail, subject, body); err != nil {
			metrics.RemindersSentTotal.WithLabelValues("failure").Inc()
			m.logger.Error("send reminder", "task_id", task.ID, "error", err)
			continue
		}

		if _, err := m.repo.MarkReminderSent(ctx, task.ID, task.UserID); err != nil {
			// Flag stays false; the next sweep re-sends. Better a
			// duplicate email than a silently dropped reminder.
			m.logger.Error("mark reminder sent", "task_id", task.ID, "error", err)
			continue
		}

		metrics.RemindersSentTotal.WithLabelValues("success").Inc()
		m.logger.Info("reminder sent", "task_id", task.ID)
	}
}

func reminderBody(title, description string, dueDate *time.Time) string {
	body := fmt.Sprintf("<p>Your task <strong>%s</strong> has a reminder due.</p>", title)
	if description != "" {
		body += fmt.Sprintf("<p>%s</p>", description)
	}
	if dueDate != nil {
		body += fmt.Sprintf("<p>Due: %s</p>", dueDate.Format(time.RFC1123))
	}
	return body
}
