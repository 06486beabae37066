package tasks

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const taskColumns = `id, business_id, created_by, assignee_id, title, notes, status, due_date, created_at, updated_at`

func scanTask(row pgx.Row) (*Task, error) {
	var task Task
	err := row.Scan(
		&task.ID, &task.BusinessID, &task.CreatedBy, &task.AssigneeID,
		&task.Title, &task.Notes, &task.Status, &task.DueDate,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// CreateTask opens a task.
func (r *Repository) CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO tasks
		 (id, business_id, created_by, assignee_id, title, notes, status, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		 RETURNING `+taskColumns,
		uuid.NewString(), input.BusinessID, input.CreatedBy, input.AssigneeID,
		input.Title, input.Notes, StatusOpen, input.DueDate)
	return scanTask(row)
}

// GetTask fetches a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*Task, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

// ListTasks lists a business's tasks, optionally filtered by status.
func (r *Repository) ListTasks(ctx context.Context, businessID string, status Status) ([]Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE business_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY due_date ASC, created_at ASC`,
		businessID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *task)
	}
	return out, rows.Err()
}

// UpdateTask edits a task.
func (r *Repository) UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*Task, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE tasks
		 SET assignee_id = $2, title = $3, notes = $4, status = $5, due_date = $6, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+taskColumns,
		id, input.AssigneeID, input.Title, input.Notes, input.Status, input.DueDate)
	return scanTask(row)
}

// SetStatus transitions a task's status.
func (r *Repository) SetStatus(ctx context.Context, id string, status Status) (*Task, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE tasks SET status = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+taskColumns,
		id, status)
	return scanTask(row)
}

// DeleteTask removes a task.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
