package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/Arolejosia/kanban-fullstack/internal/domain"
)

const defaultPollInterval = 60 * time.Second

// FetchFunc returns the current task snapshot for the session's owner.
type FetchFunc func(ctx context.Context) ([]*domain.Task, error)

// Poller re-evaluates the notification set on a fixed interval for as
// long as the session context lives. The loop is a single goroutine, so
// at most one evaluation is ever in flight; cancelling the context stops
// it cleanly on logout.
type Poller struct {
	evaluator *Evaluator
	fetch     FetchFunc
	interval  time.Duration
	logger    *slog.Logger
}

func NewPoller(evaluator *Evaluator, fetch FetchFunc, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		evaluator: evaluator,
		fetch:     fetch,
		interval:  interval,
		logger:    logger.With("component", "notify_poller"),
	}
}

func (p *Poller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Populate the set immediately rather than waiting a full interval.
	p.Poll(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll fetches the task set once and re-evaluates. Also called directly
// after a successful task fetch so the set tracks mutations immediately.
func (p *Poller) Poll(ctx context.Context) {
	tasks, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("fetch tasks", "error", err)
		return
	}
	p.evaluator.Evaluate(tasks, time.Now())
}
