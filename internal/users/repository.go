package users

import (
	"context"
	"errors"

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

const accountColumns = `id, email, name, role, subscription_tier, is_active, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var acct Account
	err := row.Scan(
		&acct.ID, &acct.Email, &acct.Name, &acct.Role,
		&acct.SubscriptionTier, &acct.IsActive, &acct.CreatedAt, &acct.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acct, nil
}

// GetAccount fetches an account by ID.
func (r *Repository) GetAccount(ctx context.Context, id string) (*Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM users WHERE id = $1`, id)
	return scanAccount(row)
}

// ListAccounts lists accounts with optional role and search filters.
func (r *Repository) ListAccounts(ctx context.Context, filter ListFilter) ([]Account, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+`
		 FROM users
		 WHERE ($1 = '' OR role = $1)
		   AND ($2 = '' OR email ILIKE '%' || $2 || '%' OR name ILIKE '%' || $2 || '%')
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		filter.Role, filter.Search, limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *acct)
	}
	return out, rows.Err()
}

// UpdateProfile edits self-service attributes.
func (r *Repository) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*Account, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET name = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+accountColumns,
		id, input.Name)
	return scanAccount(row)
}

// AdminUpdate edits role, tier and active flag.
func (r *Repository) AdminUpdate(ctx context.Context, id string, input AdminUpdateInput) (*Account, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET role = $2, subscription_tier = $3, is_active = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+accountColumns,
		id, input.Role, input.SubscriptionTier, input.IsActive)
	return scanAccount(row)
}
