package transactions

import (
	"context"
	"errors"
	"time"

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

// Amounts travel as text so numeric precision survives the round trip.
const txnColumns = `id, business_id, created_by, kind, category, description,
	amount::text, currency, occurred_on, created_at, updated_at`

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var txn Transaction
	var amount string
	err := row.Scan(
		&txn.ID, &txn.BusinessID, &txn.CreatedBy, &txn.Kind, &txn.Category,
		&txn.Description, &amount, &txn.Currency, &txn.OccurredOn,
		&txn.CreatedAt, &txn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	txn.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// CreateTransaction inserts a record.
func (r *Repository) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO transactions
		 (id, business_id, created_by, kind, category, description, amount, currency, occurred_on, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, NOW(), NOW())
		 RETURNING `+txnColumns,
		uuid.NewString(), input.BusinessID, input.CreatedBy, input.Kind,
		input.Category, input.Description, input.Amount.String(),
		input.Currency, input.OccurredOn)
	return scanTransaction(row)
}

// GetTransaction fetches a record by ID.
func (r *Repository) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+txnColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

// ListTransactions lists records for a business applying the filter.
func (r *Repository) ListTransactions(ctx context.Context, businessID string, filter ListFilter) ([]Transaction, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+txnColumns+`
		 FROM transactions
		 WHERE business_id = $1
		   AND ($2 = '' OR kind = $2)
		   AND ($3 = '' OR category = $3)
		   AND ($4::date IS NULL OR occurred_on >= $4)
		   AND ($5::date IS NULL OR occurred_on <= $5)
		 ORDER BY occurred_on DESC, created_at DESC
		 LIMIT $6`,
		businessID, string(filter.Kind), filter.Category,
		nullableDate(filter.From), nullableDate(filter.To), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *txn)
	}
	return out, rows.Err()
}

// UpdateTransaction edits a record.
func (r *Repository) UpdateTransaction(ctx context.Context, id string, input UpdateTransactionInput) (*Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE transactions
		 SET kind = $2, category = $3, description = $4, amount = $5::numeric, occurred_on = $6, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+txnColumns,
		id, input.Kind, input.Category, input.Description,
		input.Amount.String(), input.OccurredOn)
	return scanTransaction(row)
}

// DeleteTransaction removes a record.
func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SummarizePeriod aggregates a business's records for one YYYY-MM period.
func (r *Repository) SummarizePeriod(ctx context.Context, businessID, period string) ([]CategoryTotal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, kind, COALESCE(SUM(amount), 0)::text
		 FROM transactions
		 WHERE business_id = $1 AND to_char(occurred_on, 'YYYY-MM') = $2
		 GROUP BY category, kind
		 ORDER BY category, kind`,
		businessID, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		var total string
		if err := rows.Scan(&ct.Category, &ct.Kind, &total); err != nil {
			return nil, err
		}
		if ct.Total, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
