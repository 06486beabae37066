package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// Repository provides PostgreSQL backed lookups against the hosted schema.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetProfile fetches the user row by ID.
func (r *Repository) GetProfile(ctx context.Context, userID string) (Profile, error) {
	const query = `
		SELECT id, email, name, role, subscription_tier, is_active
		FROM users
		WHERE id = $1`
	var p Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.Email, &p.Name, &p.Role, &p.Tier, &p.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, shared.ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

// ListMemberships returns all business memberships for the user.
func (r *Repository) ListMemberships(ctx context.Context, userID string) ([]Membership, error) {
	const query = `
		SELECT business_id, relation
		FROM business_members
		WHERE user_id = $1
		ORDER BY business_id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.BusinessID, &m.Relation); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}
