package transactions

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type memoryTxnRepo struct {
	txns   map[string]*Transaction
	nextID int
}

func newMemoryTxnRepo() *memoryTxnRepo {
	return &memoryTxnRepo{txns: make(map[string]*Transaction)}
}

func (r *memoryTxnRepo) CreateTransaction(_ context.Context, input CreateTransactionInput) (*Transaction, error) {
	r.nextID++
	txn := &Transaction{
		ID:          "t" + strconv.Itoa(r.nextID),
		BusinessID:  input.BusinessID,
		CreatedBy:   input.CreatedBy,
		Kind:        input.Kind,
		Category:    input.Category,
		Description: input.Description,
		Amount:      input.Amount,
		Currency:    input.Currency,
		OccurredOn:  input.OccurredOn,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	r.txns[txn.ID] = txn
	return txn, nil
}

func (r *memoryTxnRepo) GetTransaction(_ context.Context, id string) (*Transaction, error) {
	txn, ok := r.txns[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return txn, nil
}

func (r *memoryTxnRepo) ListTransactions(_ context.Context, businessID string, filter ListFilter) ([]Transaction, error) {
	var out []Transaction
	for _, txn := range r.txns {
		if txn.BusinessID != businessID {
			continue
		}
		if filter.Kind != "" && txn.Kind != filter.Kind {
			continue
		}
		if filter.Category != "" && txn.Category != filter.Category {
			continue
		}
		out = append(out, *txn)
	}
	return out, nil
}

func (r *memoryTxnRepo) UpdateTransaction(_ context.Context, id string, input UpdateTransactionInput) (*Transaction, error) {
	txn, ok := r.txns[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	txn.Kind = input.Kind
	txn.Category = input.Category
	txn.Description = input.Description
	txn.Amount = input.Amount
	txn.OccurredOn = input.OccurredOn
	return txn, nil
}

func (r *memoryTxnRepo) DeleteTransaction(_ context.Context, id string) error {
	if _, ok := r.txns[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.txns, id)
	return nil
}

func (r *memoryTxnRepo) SummarizePeriod(_ context.Context, businessID, period string) ([]CategoryTotal, error) {
	sums := make(map[[2]string]decimal.Decimal)
	for _, txn := range r.txns {
		if txn.BusinessID != businessID || txn.OccurredOn.Format("2006-01") != period {
			continue
		}
		key := [2]string{txn.Category, string(txn.Kind)}
		sums[key] = sums[key].Add(txn.Amount)
	}
	var totals []CategoryTotal
	for key, total := range sums {
		totals = append(totals, CategoryTotal{Category: key[0], Kind: Kind(key[1]), Total: total})
	}
	return totals, nil
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestRecordTransactionDefaultsOccurredOn(t *testing.T) {
	svc := NewService(newMemoryTxnRepo())
	txn, err := svc.RecordTransaction(context.Background(), CreateTransactionInput{
		BusinessID: "b1",
		CreatedBy:  "u1",
		Kind:       KindExpense,
		Category:   "rent",
		Amount:     mustDecimal(t, "1200.00"),
	})
	require.NoError(t, err)
	require.False(t, txn.OccurredOn.IsZero())
	require.Equal(t, "1200", txn.Amount.String())
}

func TestRecordTransactionValidation(t *testing.T) {
	svc := NewService(newMemoryTxnRepo())
	ctx := context.Background()

	_, err := svc.RecordTransaction(ctx, CreateTransactionInput{
		CreatedBy: "u1", Kind: KindIncome, Category: "sales", Amount: mustDecimal(t, "10"),
	})
	require.Error(t, err, "missing business")

	_, err = svc.RecordTransaction(ctx, CreateTransactionInput{
		BusinessID: "b1", Kind: KindIncome, Category: "sales", Amount: mustDecimal(t, "10"),
	})
	require.Error(t, err, "missing creator")

	_, err = svc.RecordTransaction(ctx, CreateTransactionInput{
		BusinessID: "b1", CreatedBy: "u1", Kind: "transfer", Category: "sales", Amount: mustDecimal(t, "10"),
	})
	require.Error(t, err, "unknown kind")

	_, err = svc.RecordTransaction(ctx, CreateTransactionInput{
		BusinessID: "b1", CreatedBy: "u1", Kind: KindIncome, Category: "   ", Amount: mustDecimal(t, "10"),
	})
	require.Error(t, err, "blank category")

	_, err = svc.RecordTransaction(ctx, CreateTransactionInput{
		BusinessID: "b1", CreatedBy: "u1", Kind: KindIncome, Category: "sales", Amount: mustDecimal(t, "-5"),
	})
	require.Error(t, err, "negative amount")

	_, err = svc.RecordTransaction(ctx, CreateTransactionInput{
		BusinessID: "b1", CreatedBy: "u1", Kind: KindIncome, Category: "sales", Amount: decimal.Zero,
	})
	require.Error(t, err, "zero amount")
}

func TestSummarizeDecimalMath(t *testing.T) {
	repo := newMemoryTxnRepo()
	svc := NewService(repo)
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	seed := []struct {
		kind     Kind
		category string
		amount   string
	}{
		{KindIncome, "sales", "100.10"},
		{KindIncome, "sales", "200.20"},
		{KindIncome, "consulting", "50.00"},
		{KindExpense, "rent", "120.45"},
		{KindExpense, "supplies", "30.05"},
	}
	for _, s := range seed {
		_, err := svc.RecordTransaction(ctx, CreateTransactionInput{
			BusinessID: "b1", CreatedBy: "u1", Kind: s.kind,
			Category: s.category, Amount: mustDecimal(t, s.amount), OccurredOn: day,
		})
		require.NoError(t, err)
	}
	// Different period, must not count.
	_, err := svc.RecordTransaction(ctx, CreateTransactionInput{
		BusinessID: "b1", CreatedBy: "u1", Kind: KindIncome,
		Category: "sales", Amount: mustDecimal(t, "999"),
		OccurredOn: day.AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	summary, err := svc.Summarize(ctx, "b1", "2026-03")
	require.NoError(t, err)
	require.Equal(t, "350.3", summary.Income.String())
	require.Equal(t, "150.5", summary.Expense.String())
	require.Equal(t, "199.8", summary.Net.String())
	require.Len(t, summary.Categories, 4)
}

func TestSummarizeRejectsBadPeriod(t *testing.T) {
	svc := NewService(newMemoryTxnRepo())
	for _, period := range []string{"", "2026", "2026-13", "2026-3", "march"} {
		_, err := svc.Summarize(context.Background(), "b1", period)
		require.Error(t, err, period)
	}
}

func TestUpdateTransactionRequiresOccurredOn(t *testing.T) {
	repo := newMemoryTxnRepo()
	svc := NewService(repo)
	txn, err := svc.RecordTransaction(context.Background(), CreateTransactionInput{
		BusinessID: "b1", CreatedBy: "u1", Kind: KindIncome,
		Category: "sales", Amount: mustDecimal(t, "10"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateTransaction(context.Background(), txn.ID, UpdateTransactionInput{
		Kind: KindIncome, Category: "sales", Amount: mustDecimal(t, "20"),
	})
	require.Error(t, err)

	updated, err := svc.UpdateTransaction(context.Background(), txn.ID, UpdateTransactionInput{
		Kind: KindExpense, Category: "refunds", Amount: mustDecimal(t, "20"), OccurredOn: time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, KindExpense, updated.Kind)
}
