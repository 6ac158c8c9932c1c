package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Arolejosia/kanban-fullstack/internal/domain"
	"github.com/Arolejosia/kanban-fullstack/internal/email"
	"github.com/Arolejosia/kanban-fullstack/internal/metrics"
	"github.com/Arolejosia/kanban-fullstack/internal/repository"
	"github.com/robfig/cron/v3"
)

// Digest emails each user a morning summary of tasks due within the
// next 24 hours. Fire times come from a standard cron expression.
type Digest struct {
	repo     repository.TaskRepository
	sender   email.Sender
	schedule cron.Schedule
	logger   *slog.Logger
}

func NewDigest(repo repository.TaskRepository, sender email.Sender, cronExpr string, logger *slog.Logger) (*Digest, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse digest cron %q: %w", cronExpr, err)
	}
	return &Digest{
		repo:     repo,
		sender:   sender,
		schedule: schedule,
		logger:   logger.With("component", "digest"),
	}, nil
}

func (d *Digest) Start(ctx context.Context) {
	for {
		next := d.schedule.Next(time.Now())
		d.logger.Info("next digest scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			d.logger.Info("digest dispatcher shut down")
			return
		case <-timer.C:
			d.run(ctx)
		}
	}
}

func (d *Digest) run(ctx context.Context) {
	entries, err := d.repo.AllDueSoon(ctx, time.Now(), domain.DueSoonWindow)
	if err != nil {
		d.logger.Error("list due soon", "error", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	for owner, tasks := range groupByOwner(entries) {
		subject := fmt.Sprintf("You have %d task(s) due today", len(tasks))
		if err := d.sender.Send(ctx, owner, subject, digestBody(tasks)); err != nil {
			metrics.DigestsSentTotal.WithLabelValues("failure").Inc()
			d.logger.Error("send digest", "to", owner, "error", err)
			continue
		}
		metrics.DigestsSentTotal.WithLabelValues("success").Inc()
		d.logger.Info("digest sent", "to", owner, "tasks", len(tasks))
	}
}

func groupByOwner(entries []*repository.PendingReminder) map[string][]domain.Task {
	grouped := make(map[string][]domain.Task)
	for _, e := range entries {
		grouped[e.OwnerEmail] = append(grouped[e.OwnerEmail], e.Task)
	}
	return grouped
}

func digestBody(tasks []domain.Task) string {
	var b strings.Builder
	b.WriteString("<p>Due within the next 24 hours:</p><ul>")
	for _, t := range tasks {
		b.WriteString("<li><strong>")
		b.WriteString(t.Title)
		b.WriteString("</strong>")
		if t.DueDate != nil {
			fmt.Fprintf(&b, " (due %s)", t.DueDate.Format(time.RFC1123))
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
