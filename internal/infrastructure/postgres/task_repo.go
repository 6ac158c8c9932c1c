package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Arolejosia/kanban-fullstack/internal/domain"
	"github.com/Arolejosia/kanban-fullstack/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, user_id, title, description, status, priority,
	due_date, reminder_date, is_reminder_sent, created_at, updated_at`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	query := `
		INSERT INTO tasks (
			user_id, title, description, status, priority,
			due_date, reminder_date, is_reminder_sent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.ReminderDate,
		task.ReminderSent,
	)
	return scanTask(row)
}

func (r *TaskRepository) List(ctx context.Context, userID int64) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// Update is a full replace of the mutable columns. The WHERE clause is
// the ownership check: a row owned by someone else (or deleted by a
// concurrent request) scans as no rows, which maps to ErrTaskNotFound.
func (r *TaskRepository) Update(ctx context.Context, id, userID int64, input repository.UpdateTaskInput) (*domain.Task, error) {
	query := `
		UPDATE tasks
		SET    title         = $3,
		       description   = $4,
		       status        = $5,
		       priority      = $6,
		       due_date      = $7,
		       reminder_date = $8,
		       updated_at    = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query, id, userID,
		input.Title,
		input.Description,
		input.Status,
		input.Priority,
		input.DueDate,
		input.ReminderDate,
	)
	return scanTask(row)
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) ListDueSoon(ctx context.Context, userID int64, now time.Time, window time.Duration) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE  user_id = $1
		  AND  status <> 'done'
		  AND  due_date IS NOT NULL
		  AND  due_date >= $2
		  AND  due_date <= $3
		ORDER BY due_date ASC`

	rows, err := r.pool.Query(ctx, query, userID, now, now.Add(window))
	if err != nil {
		return nil, fmt.Errorf("list due soon: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *TaskRepository) ListPendingReminders(ctx context.Context, userID int64, now time.Time) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE  user_id = $1
		  AND  status <> 'done'
		  AND  reminder_date IS NOT NULL
		  AND  reminder_date <= $2
		  AND  is_reminder_sent = FALSE
		ORDER BY reminder_date ASC`

	rows, err := r.pool.Query(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("list pending reminders: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *TaskRepository) MarkReminderSent(ctx context.Context, id, userID int64) (*domain.Task, error) {
	// Idempotent: flipping an already-true flag still matches and returns the row.
	query := `
		UPDATE tasks
		SET    is_reminder_sent = TRUE,
		       updated_at       = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	return scanTask(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *TaskRepository) AllPendingReminders(ctx context.Context, now time.Time, limit int) ([]*repository.PendingReminder, error) {
	query := `
		SELECT t.id, t.user_id, t.title, t.description, t.status, t.priority,
		       t.due_date, t.reminder_date, t.is_reminder_sent, t.created_at, t.updated_at,
		       u.email
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		WHERE  t.status <> 'done'
		  AND  t.reminder_date IS NOT NULL
		  AND  t.reminder_date <= $1
		  AND  t.is_reminder_sent = FALSE
		ORDER BY t.reminder_date ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("all pending reminders: %w", err)
	}
	defer rows.Close()
	return collectOwnedTasks(rows)
}

func (r *TaskRepository) AllDueSoon(ctx context.Context, now time.Time, window time.Duration) ([]*repository.PendingReminder, error) {
	query := `
		SELECT t.id, t.user_id, t.title, t.description, t.status, t.priority,
		       t.due_date, t.reminder_date, t.is_reminder_sent, t.created_at, t.updated_at,
		       u.email
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		WHERE  t.status <> 'done'
		  AND  t.due_date IS NOT NULL
		  AND  t.due_date >= $1
		  AND  t.due_date <= $2
		ORDER BY u.email ASC, t.due_date ASC`

	rows, err := r.pool.Query(ctx, query, now, now.Add(window))
	if err != nil {
		return nil, fmt.Errorf("all due soon: %w", err)
	}
	defer rows.Close()
	return collectOwnedTasks(rows)
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.ReminderDate, &t.ReminderSent, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &t, nil
}

func collectTasks(rows pgx.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func collectOwnedTasks(rows pgx.Rows) ([]*repository.PendingReminder, error) {
	var out []*repository.PendingReminder
	for rows.Next() {
		var pr repository.PendingReminder
		t := &pr.Task
		err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.DueDate, &t.ReminderDate, &t.ReminderSent, &t.CreatedAt, &t.UpdatedAt,
			&pr.OwnerEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan owned task: %w", err)
		}
		out = append(out, &pr)
	}
	return out, rows.Err()
}
