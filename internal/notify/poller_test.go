package notify_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Arolejosia/kanban-fullstack/internal/domain"
	"github.com/Arolejosia/kanban-fullstack/internal/notify"
)

func TestPoller_EvaluatesOnTickAndStopsOnCancel(t *testing.T) {
	var fetches atomic.Int64
	fetch := func(_ context.Context) ([]*domain.Task, error) {
		fetches.Add(1)
		due := time.Now().Add(-time.Hour)
		return []*domain.Task{{ID: 1, Title: "t", Status: domain.StatusTodo, DueDate: &due}}, nil
	}

	e := notify.NewEvaluator()
	p := notify.NewPoller(e, fetch, 10*time.Millisecond, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for fetches.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d fetches before deadline", fetches.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	if len(e.Active()) == 0 {
		t.Error("evaluator not populated by poll")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}

	// No further evaluation after shutdown.
	settled := fetches.Load()
	time.Sleep(50 * time.Millisecond)
	if fetches.Load() != settled {
		t.Error("poller kept fetching after cancel")
	}
}

func TestPoller_FetchErrorKeepsPreviousSet(t *testing.T) {
	e := notify.NewEvaluator()
	due := time.Now().Add(-time.Hour)
	e.Evaluate([]*domain.Task{{ID: 1, Title: "t", Status: domain.StatusTodo, DueDate: &due}}, time.Now())

	p := notify.NewPoller(e, func(_ context.Context) ([]*domain.Task, error) {
		return nil, errors.New("network down")
	}, time.Minute, slog.Default())

	p.Poll(context.Background())

	if len(e.Active()) != 1 {
		t.Error("failed fetch must not wipe the working set")
	}
}
