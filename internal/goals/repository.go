package goals

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

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

const goalColumns = `id, business_id, created_by, name,
	target_amount::text, saved_amount::text, deadline, created_at, updated_at`

func scanGoal(row pgx.Row) (*Goal, error) {
	var goal Goal
	var target, saved string
	err := row.Scan(
		&goal.ID, &goal.BusinessID, &goal.CreatedBy, &goal.Name,
		&target, &saved, &goal.Deadline, &goal.CreatedAt, &goal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if goal.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return nil, err
	}
	if goal.SavedAmount, err = decimal.NewFromString(saved); err != nil {
		return nil, err
	}
	return &goal, nil
}

// CreateGoal inserts a goal with zero progress.
func (r *Repository) CreateGoal(ctx context.Context, input CreateGoalInput) (*Goal, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO goals
		 (id, business_id, created_by, name, target_amount, saved_amount, deadline, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5::numeric, 0, $6, NOW(), NOW())
		 RETURNING `+goalColumns,
		uuid.NewString(), input.BusinessID, input.CreatedBy, input.Name,
		input.TargetAmount.String(), input.Deadline)
	return scanGoal(row)
}

// GetGoal fetches a goal by ID.
func (r *Repository) GetGoal(ctx context.Context, id string) (*Goal, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = $1`, id)
	return scanGoal(row)
}

// ListGoals lists a business's goals, nearest deadline first.
func (r *Repository) ListGoals(ctx context.Context, businessID string) ([]Goal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+goalColumns+`
		 FROM goals WHERE business_id = $1
		 ORDER BY deadline ASC, created_at ASC`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *goal)
	}
	return out, rows.Err()
}

// UpdateGoal edits goal attributes, leaving progress untouched.
func (r *Repository) UpdateGoal(ctx context.Context, id string, input UpdateGoalInput) (*Goal, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE goals
		 SET name = $2, target_amount = $3::numeric, deadline = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+goalColumns,
		id, input.Name, input.TargetAmount.String(), input.Deadline)
	return scanGoal(row)
}

// Contribute adds to the saved amount atomically.
func (r *Repository) Contribute(ctx context.Context, id string, amount decimal.Decimal) (*Goal, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE goals
		 SET saved_amount = saved_amount + $2::numeric, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+goalColumns,
		id, amount.String())
	return scanGoal(row)
}

// DeleteGoal removes a goal.
func (r *Repository) DeleteGoal(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListDueSoon returns goals across all businesses with deadlines inside the window.
func (r *Repository) ListDueSoon(ctx context.Context, withinDays int) ([]Goal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+goalColumns+`
		 FROM goals
		 WHERE deadline BETWEEN NOW() AND NOW() + ($1 || ' days')::interval
		   AND saved_amount < target_amount
		 ORDER BY deadline ASC`, withinDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *goal)
	}
	return out, rows.Err()
}
