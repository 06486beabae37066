package transactions

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RepositoryPort defines data access methods for transactions.
type RepositoryPort interface {
	CreateTransaction(ctx context.Context, input CreateTransactionInput) (*Transaction, error)
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	ListTransactions(ctx context.Context, businessID string, filter ListFilter) ([]Transaction, error)
	UpdateTransaction(ctx context.Context, id string, input UpdateTransactionInput) (*Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	SummarizePeriod(ctx context.Context, businessID, period string) ([]CategoryTotal, error)
}

// Service handles transaction business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func validateAmount(kind Kind, amount decimal.Decimal) error {
	if !kind.Valid() {
		return errors.New("kind must be income or expense")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("amount must be positive")
	}
	return nil
}

// RecordTransaction validates and stores a new record.
func (s *Service) RecordTransaction(ctx context.Context, input CreateTransactionInput) (*Transaction, error) {
	if input.BusinessID == "" {
		return nil, errors.New("business ID required")
	}
	if input.CreatedBy == "" {
		return nil, errors.New("creator required")
	}
	input.Category = strings.TrimSpace(input.Category)
	if input.Category == "" {
		return nil, errors.New("category required")
	}
	if err := validateAmount(input.Kind, input.Amount); err != nil {
		return nil, err
	}
	if input.OccurredOn.IsZero() {
		input.OccurredOn = time.Now()
	}
	return s.repo.CreateTransaction(ctx, input)
}

// GetTransaction fetches a record by ID.
func (s *Service) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// ListTransactions lists a business's records.
func (s *Service) ListTransactions(ctx context.Context, businessID string, filter ListFilter) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, businessID, filter)
}

// UpdateTransaction validates and applies an edit.
func (s *Service) UpdateTransaction(ctx context.Context, id string, input UpdateTransactionInput) (*Transaction, error) {
	input.Category = strings.TrimSpace(input.Category)
	if input.Category == "" {
		return nil, errors.New("category required")
	}
	if err := validateAmount(input.Kind, input.Amount); err != nil {
		return nil, err
	}
	if input.OccurredOn.IsZero() {
		return nil, errors.New("occurred_on required")
	}
	return s.repo.UpdateTransaction(ctx, id, input)
}

// DeleteTransaction removes a record.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	return s.repo.DeleteTransaction(ctx, id)
}

// Summarize builds the income/expense/net summary for one period.
func (s *Service) Summarize(ctx context.Context, businessID, period string) (*Summary, error) {
	if !periodPattern.MatchString(period) {
		return nil, errors.New("period must be YYYY-MM")
	}
	totals, err := s.repo.SummarizePeriod(ctx, businessID, period)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		BusinessID: businessID,
		Period:     period,
		Income:     decimal.Zero,
		Expense:    decimal.Zero,
		Categories: totals,
	}
	for _, ct := range totals {
		switch ct.Kind {
		case KindIncome:
			summary.Income = summary.Income.Add(ct.Total)
		case KindExpense:
			summary.Expense = summary.Expense.Add(ct.Total)
		}
	}
	summary.Net = summary.Income.Sub(summary.Expense)
	return summary, nil
}
