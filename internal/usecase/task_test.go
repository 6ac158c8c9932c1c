package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Arolejosia/kanban-fullstack/internal/domain"
	"github.com/Arolejosia/kanban-fullstack/internal/repository"
	"github.com/Arolejosia/kanban-fullstack/internal/usecase"
)

// ---- fake ----

type fakeTaskRepo struct {
	create               func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	list                 func(ctx context.Context, userID int64) ([]*domain.Task, error)
	update               func(ctx context.Context, id, userID int64, input repository.UpdateTaskInput) (*domain.Task, error)
	delete               func(ctx context.Context, id, userID int64) error
	listDueSoon          func(ctx context.Context, userID int64, now time.Time, window time.Duration) ([]*domain.Task, error)
	listPendingReminders func(ctx context.Context, userID int64, now time.Time) ([]*domain.Task, error)
	markReminderSent     func(ctx context.Context, id, userID int64) (*domain.Task, error)
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	return r.create(ctx, task)
}

func (r *fakeTaskRepo) List(ctx context.Context, userID int64) ([]*domain.Task, error) {
	return r.list(ctx, userID)
}

func (r *fakeTaskRepo) Update(ctx context.Context, id, userID int64, input repository.UpdateTaskInput) (*domain.Task, error) {
	return r.update(ctx, id, userID, input)
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id, userID int64) error {
	return r.delete(ctx, id, userID)
}

func (r *fakeTaskRepo) ListDueSoon(ctx context.Context, userID int64, now time.Time, window time.Duration) ([]*domain.Task, error) {
	return r.listDueSoon(ctx, userID, now, window)
}

func (r *fakeTaskRepo) ListPendingReminders(ctx context.Context, userID int64, now time.Time) ([]*domain.Task, error) {
	return r.listPendingReminders(ctx, userID, now)
}

func (r *fakeTaskRepo) MarkReminderSent(ctx context.Context, id, userID int64) (*domain.Task, error) {
	return r.markReminderSent(ctx, id, userID)
}

func (r *fakeTaskRepo) AllPendingReminders(_ context.Context, _ time.Time, _ int) ([]*repository.PendingReminder, error) {
	return nil, nil
}

func (r *fakeTaskRepo) AllDueSoon(_ context.Context, _ time.Time, _ time.Duration) ([]*repository.PendingReminder, error) {
	return nil, nil
}

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	return verr.Message
}

// echoRepo stores nothing; it returns whatever it was asked to write so
// tests can inspect the values that would hit the database.
func echoRepo() (*fakeTaskRepo, **domain.Task, *repository.UpdateTaskInput) {
	var created *domain.Task
	var updated repository.UpdateTaskInput
	repo := &fakeTaskRepo{}
	repo.create = func(_ context.Context, task *domain.Task) (*domain.Task, error) {
		created = task
		return task, nil
	}
	repo.update = func(_ context.Context, id, userID int64, input repository.UpdateTaskInput) (*domain.Task, error) {
		updated = input
		return &domain.Task{ID: id, UserID: userID, Title: input.Title, Status: input.Status, Priority: input.Priority}, nil
	}
	return repo, &created, &updated
}

// ---- CreateTask ----

func TestCreateTask_Defaults(t *testing.T) {
	repo, created, _ := echoRepo()
	uc := usecase.NewTaskUsecase(repo)

	_, err := uc.CreateTask(context.Background(), usecase.CreateTaskInput{
		UserID: 1,
		Title:  "Write spec",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := *created
	if got.Status != domain.StatusTodo {
		t.Errorf("status = %q, want todo", got.Status)
	}
	if got.Priority != domain.PriorityMedium {
		t.Errorf("priority = %q, want medium", got.Priority)
	}
	if got.Description != "" {
		t.Errorf("description = %q, want empty", got.Description)
	}
	if got.ReminderSent {
		t.Error("reminder sent flag must start false")
	}
	if got.DueDate != nil || got.ReminderDate != nil {
		t.Error("dates must default to nil")
	}
}

func TestCreateTask_TrimsTitle(t *testing.T) {
	repo, created, _ := echoRepo()
	uc := usecase.NewTaskUsecase(repo)

	if _, err := uc.CreateTask(context.Background(), usecase.CreateTaskInput{UserID: 1, Title: "  padded  "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (*created).Title != "padded" {
		t.Errorf("title = %q, want %q", (*created).Title, "padded")
	}
}

func TestCreateTask_Validation(t *testing.T) {
	repo, _, _ := echoRepo()
	uc := usecase.NewTaskUsecase(repo)

	tests := []struct {
		name  string
		input usecase.CreateTaskInput
		want  string
	}{
		{"blank title", usecase.CreateTaskInput{UserID: 1, Title: "   "}, "title required"},
		{"bad priority", usecase.CreateTaskInput{UserID: 1, Title: "t", Priority: "urgent"}, "invalid priority"},
		{"bad due date", usecase.CreateTaskInput{UserID: 1, Title: "t", DueDate: "tomorrow"}, "invalid due date"},
		{"bad reminder date", usecase.CreateTaskInput{UserID: 1, Title: "t", ReminderDate: "13/13/2026"}, "invalid reminder date"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateTask(context.Background(), tc.input)
			if msg := validationMessage(t, err); msg != tc.want {
				t.Errorf("message = %q, want %q", msg, tc.want)
			}
		})
	}
}

func TestCreateTask_ParsesRFC3339Dates(t *testing.T) {
	repo, created, _ := echoRepo()
	uc := usecase.NewTaskUsecase(repo)

	_, err := uc.CreateTask(context.Background(), usecase.CreateTaskInput{
		UserID:  1,
		Title:   "t",
		DueDate: "2026-09-01T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := (*created).DueDate
	if got == nil || !got.Equal(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("due date = %v", got)
	}
}

// ---- UpdateTask ----

func TestUpdateTask_ValidationPrecedence(t *testing.T) {
	repo, _, _ := echoRepo()
	uc := usecase.NewTaskUsecase(repo)

	// Every field is invalid; the reported error must follow the fixed
	// order title > status > priority > due date > reminder date.
	input := usecase.UpdateTaskInput{
		UserID:       1,
		TaskID:       1,
		Title:        "  ",
		Status:       "archived",
		Priority:     "urgent",
		DueDate:      "not-a-date",
		ReminderDate: "not-a-date",
	}

	steps := []struct {
		fix  func(*usecase.UpdateTaskInput)
		want string
	}{
		{func(*usecase.UpdateTaskInput) {}, "title required"},
		{func(in *usecase.UpdateTaskInput) { in.Title = "t" }, "invalid status"},
		{func(in *usecase.UpdateTaskInput) { in.Status = "todo" }, "invalid priority"},
		{func(in *usecase.UpdateTaskInput) { in.Priority = "high" }, "invalid due date"},
		{func(in *usecase.UpdateTaskInput) { in.DueDate = "2026-09-01T12:00:00Z" }, "invalid reminder date"},
	}

	for _, step := range steps {
		step.fix(&input)
		_, err := uc.UpdateTask(context.Background(), input)
		if msg := validationMessage(t, err); msg != step.want {
			t.Fatalf("message = %q, want %q", msg, step.want)
		}
	}
}

func TestUpdateTask_OwnershipCheckedAfterValidation(t *testing.T) {
	var repoCalled bool
	repo := &fakeTaskRepo{
		update: func(_ context.Context, _, _ int64, _ repository.UpdateTaskInput) (*domain.Task, error) {
			repoCalled = true
			return nil, domain.ErrTaskNotFound
		},
	}
	uc := usecase.NewTaskUsecase(repo)

	// Invalid payload: the store must not be touched.
	_, err := uc.UpdateTask(context.Background(), usecase.UpdateTaskInput{
		UserID: 1, TaskID: 99, Title: "", Status: "todo",
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if repoCalled {
		t.Fatal("repo called before validation passed")
	}

	// Valid payload against a task this user does not own.
	_, err = uc.UpdateTask(context.Background(), usecase.UpdateTaskInput{
		UserID: 1, TaskID: 99, Title: "t", Status: "todo",
	})
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("want ErrTaskNotFound, got %v", err)
	}
	if !repoCalled {
		t.Fatal("repo not consulted for ownership")
	}
}

func TestUpdateTask_DefaultsPriorityWhenAbsent(t *testing.T) {
	repo, _, updated := echoRepo()
	uc := usecase.NewTaskUsecase(repo)

	_, err := uc.UpdateTask(context.Background(), usecase.UpdateTaskInput{
		UserID: 1, TaskID: 1, Title: "t", Status: "done",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Priority != domain.PriorityMedium {
		t.Errorf("priority = %q, want medium", updated.Priority)
	}
	if updated.Status != domain.StatusDone {
		t.Errorf("status = %q, want done", updated.Status)
	}
}

// ---- derived queries ----

func TestListDueSoon_UsesInclusive24hWindow(t *testing.T) {
	var gotWindow time.Duration
	repo := &fakeTaskRepo{
		listDueSoon: func(_ context.Context, _ int64, _ time.Time, window time.Duration) ([]*domain.Task, error) {
			gotWindow = window
			return nil, nil
		},
	}
	uc := usecase.NewTaskUsecase(repo)

	if _, err := uc.ListDueSoon(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotWindow != 24*time.Hour {
		t.Errorf("window = %v, want 24h", gotWindow)
	}
}

func TestMarkReminderSent_NotFoundPassthrough(t *testing.T) {
	repo := &fakeTaskRepo{
		markReminderSent: func(_ context.Context, _, _ int64) (*domain.Task, error) {
			return nil, domain.ErrTaskNotFound
		},
	}
	uc := usecase.NewTaskUsecase(repo)

	_, err := uc.MarkReminderSent(context.Background(), 5, 1)
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("want ErrTaskNotFound, got %v", err)
	}
}
