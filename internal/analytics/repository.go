package analytics

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository aggregates platform wide counters.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UserCounts returns total, active and per role/tier user counts.
func (r *Repository) UserCounts(ctx context.Context) (total, active int64, byRole, byTier map[string]int64, err error) {
	byRole = make(map[string]int64)
	byTier = make(map[string]int64)
	rows, err := r.pool.Query(ctx,
		`SELECT role, subscription_tier, is_active, COUNT(*)
		 FROM users
		 GROUP BY role, subscription_tier, is_active`)
	if err != nil {
		return 0, 0, nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var role, tier string
		var isActive bool
		var count int64
		if err := rows.Scan(&role, &tier, &isActive, &count); err != nil {
			return 0, 0, nil, nil, err
		}
		total += count
		if isActive {
			active += count
		}
		byRole[role] += count
		byTier[tier] += count
	}
	return total, active, byRole, byTier, rows.Err()
}

// BusinessCount returns the number of businesses on the platform.
func (r *Repository) BusinessCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM businesses`).Scan(&count)
	return count, err
}

// TransactionTotals returns record count and income/expense sums for one period.
func (r *Repository) TransactionTotals(ctx context.Context, period string) (count int64, income, expense decimal.Decimal, err error) {
	income, expense = decimal.Zero, decimal.Zero
	rows, err := r.pool.Query(ctx,
		`SELECT kind, COUNT(*), COALESCE(SUM(amount), 0)::text
		 FROM transactions
		 WHERE to_char(occurred_on, 'YYYY-MM') = $1
		 GROUP BY kind`, period)
	if err != nil {
		return 0, income, expense, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind, total string
		var kindCount int64
		if err := rows.Scan(&kind, &kindCount, &total); err != nil {
			return 0, income, expense, err
		}
		count += kindCount
		sum, err := decimal.NewFromString(total)
		if err != nil {
			return 0, income, expense, err
		}
		switch kind {
		case "income":
			income = income.Add(sum)
		case "expense":
			expense = expense.Add(sum)
		}
	}
	return count, income, expense, rows.Err()
}

// BusinessTrend returns per month income/expense sums for one business over
// the trailing window. Months with no records are absent from the result.
func (r *Repository) BusinessTrend(ctx context.Context, businessID string, months int) (map[string]KindTotals, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT to_char(occurred_on, 'YYYY-MM'), kind, COALESCE(SUM(amount), 0)::text
		 FROM transactions
		 WHERE business_id = $1
		   AND occurred_on >= date_trunc('month', NOW()) - ($2 || ' months')::interval
		 GROUP BY 1, kind
		 ORDER BY 1`, businessID, months-1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trend := make(map[string]KindTotals)
	for rows.Next() {
		var period, kind, total string
		if err := rows.Scan(&period, &kind, &total); err != nil {
			return nil, err
		}
		sum, err := decimal.NewFromString(total)
		if err != nil {
			return nil, err
		}
		totals := trend[period]
		switch kind {
		case "income":
			totals.Income = totals.Income.Add(sum)
		case "expense":
			totals.Expense = totals.Expense.Add(sum)
		}
		trend[period] = totals
	}
	return trend, rows.Err()
}

// PendingExportCount returns queued and running export jobs.
func (r *Repository) PendingExportCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM report_jobs WHERE status IN ('queued', 'running')`).Scan(&count)
	return count, err
}
