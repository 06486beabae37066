package transactions

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind distinguishes money coming in from money going out.
type Kind string

// Transaction kinds.
const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether the kind is known.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single income or expense record in a business's books.
type Transaction struct {
	ID          string
	BusinessID  string
	CreatedBy   string
	Kind        Kind
	Category    string
	Description string
	Amount      decimal.Decimal
	Currency    string
	OccurredOn  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateTransactionInput for recording transactions.
type CreateTransactionInput struct {
	BusinessID  string
	CreatedBy   string
	Kind        Kind
	Category    string
	Description string
	Amount      decimal.Decimal
	Currency    string
	OccurredOn  time.Time
}

// UpdateTransactionInput for editing an existing record.
type UpdateTransactionInput struct {
	Kind        Kind
	Category    string
	Description string
	Amount      decimal.Decimal
	OccurredOn  time.Time
}

// ListFilter narrows transaction listings.
type ListFilter struct {
	Kind     Kind
	Category string
	From     time.Time
	To       time.Time
	Limit    int
}

// CategoryTotal is one aggregation row of a summary.
type CategoryTotal struct {
	Category string
	Kind     Kind
	Total    decimal.Decimal
}

// Summary aggregates a business's books over one period.
type Summary struct {
	BusinessID string
	Period     string // YYYY-MM
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Net        decimal.Decimal
	Categories []CategoryTotal
}
