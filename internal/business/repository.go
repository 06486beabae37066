package business

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
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

const uniqueViolation = "23505"

// CreateBusiness inserts the business and its owner membership in one
// transaction.
func (r *Repository) CreateBusiness(ctx context.Context, input CreateBusinessInput) (*Business, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id := uuid.NewString()
	var biz Business
	err = tx.QueryRow(ctx,
		`INSERT INTO businesses (id, name, owner_id, currency, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())
		 RETURNING id, name, owner_id, currency, created_at, updated_at`,
		id, input.Name, input.OwnerID, input.Currency,
	).Scan(&biz.ID, &biz.Name, &biz.OwnerID, &biz.Currency, &biz.CreatedAt, &biz.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, httpx.ErrDuplicate
		}
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO business_members (business_id, user_id, relation, added_at)
		 VALUES ($1, $2, 'owner', NOW())`,
		biz.ID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &biz, nil
}

// GetBusiness fetches a business by ID.
func (r *Repository) GetBusiness(ctx context.Context, id string) (*Business, error) {
	var biz Business
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, currency, created_at, updated_at
		 FROM businesses WHERE id = $1`, id,
	).Scan(&biz.ID, &biz.Name, &biz.OwnerID, &biz.Currency, &biz.CreatedAt, &biz.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &biz, nil
}

// ListBusinessesForUser returns every business the user belongs to.
func (r *Repository) ListBusinessesForUser(ctx context.Context, userID string) ([]Business, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.id, b.name, b.owner_id, b.currency, b.created_at, b.updated_at
		 FROM businesses b
		 JOIN business_members m ON m.business_id = b.id
		 WHERE m.user_id = $1
		 ORDER BY b.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var businesses []Business
	for rows.Next() {
		var biz Business
		if err := rows.Scan(&biz.ID, &biz.Name, &biz.OwnerID, &biz.Currency, &biz.CreatedAt, &biz.UpdatedAt); err != nil {
			return nil, err
		}
		businesses = append(businesses, biz)
	}
	return businesses, rows.Err()
}

// CountOwnedBusinesses returns how many businesses the user owns.
func (r *Repository) CountOwnedBusinesses(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM businesses WHERE owner_id = $1`, userID).Scan(&count)
	return count, err
}

// UpdateBusiness updates name and currency.
func (r *Repository) UpdateBusiness(ctx context.Context, id string, input UpdateBusinessInput) (*Business, error) {
	var biz Business
	err := r.pool.QueryRow(ctx,
		`UPDATE businesses SET name = $2, currency = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, name, owner_id, currency, created_at, updated_at`,
		id, input.Name, input.Currency,
	).Scan(&biz.ID, &biz.Name, &biz.OwnerID, &biz.Currency, &biz.CreatedAt, &biz.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &biz, nil
}

// DeleteBusiness removes the business. Membership rows cascade on the
// hosted schema.
func (r *Repository) DeleteBusiness(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AddMember attaches a user to the business.
func (r *Repository) AddMember(ctx context.Context, businessID, userID, relation string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO business_members (business_id, user_id, relation, added_at)
		 VALUES ($1, $2, $3, NOW())`,
		businessID, userID, relation)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return httpx.ErrDuplicate
		}
	}
	return err
}

// RemoveMember detaches a user from the business.
func (r *Repository) RemoveMember(ctx context.Context, businessID, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM business_members WHERE business_id = $1 AND user_id = $2`,
		businessID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListMembers returns the membership roster.
func (r *Repository) ListMembers(ctx context.Context, businessID string) ([]Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT business_id, user_id, relation, added_at
		 FROM business_members WHERE business_id = $1
		 ORDER BY added_at`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.BusinessID, &m.UserID, &m.Relation, &m.AddedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// TransferOwnership moves the business to a new owner and fixes both
// membership relations.
func (r *Repository) TransferOwnership(ctx context.Context, businessID, newOwnerID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var oldOwnerID string
	err = tx.QueryRow(ctx,
		`SELECT owner_id FROM businesses WHERE id = $1 FOR UPDATE`, businessID).Scan(&oldOwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrNotFound
		}
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE businesses SET owner_id = $2, updated_at = NOW() WHERE id = $1`,
		businessID, newOwnerID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE business_members SET relation = 'member'
		 WHERE business_id = $1 AND user_id = $2`, businessID, oldOwnerID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO business_members (business_id, user_id, relation, added_at)
		 VALUES ($1, $2, 'owner', NOW())
		 ON CONFLICT (business_id, user_id) DO UPDATE SET relation = 'owner'`,
		businessID, newOwnerID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
