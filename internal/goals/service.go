package goals

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// RepositoryPort defines data access methods for goals.
type RepositoryPort interface {
	CreateGoal(ctx context.Context, input CreateGoalInput) (*Goal, error)
	GetGoal(ctx context.Context, id string) (*Goal, error)
	ListGoals(ctx context.Context, businessID string) ([]Goal, error)
	UpdateGoal(ctx context.Context, id string, input UpdateGoalInput) (*Goal, error)
	Contribute(ctx context.Context, id string, amount decimal.Decimal) (*Goal, error)
	DeleteGoal(ctx context.Context, id string) error
	ListDueSoon(ctx context.Context, withinDays int) ([]Goal, error)
}

// Service handles goal business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func validateGoalFields(name string, target decimal.Decimal) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("goal name required")
	}
	if target.LessThanOrEqual(decimal.Zero) {
		return "", errors.New("target amount must be positive")
	}
	return name, nil
}

// CreateGoal validates and stores a new goal.
func (s *Service) CreateGoal(ctx context.Context, input CreateGoalInput) (*Goal, error) {
	if input.BusinessID == "" {
		return nil, errors.New("business ID required")
	}
	if input.CreatedBy == "" {
		return nil, errors.New("creator required")
	}
	name, err := validateGoalFields(input.Name, input.TargetAmount)
	if err != nil {
		return nil, err
	}
	input.Name = name
	return s.repo.CreateGoal(ctx, input)
}

// GetGoal fetches a goal by ID.
func (s *Service) GetGoal(ctx context.Context, id string) (*Goal, error) {
	return s.repo.GetGoal(ctx, id)
}

// ListGoals lists a business's goals.
func (s *Service) ListGoals(ctx context.Context, businessID string) ([]Goal, error) {
	return s.repo.ListGoals(ctx, businessID)
}

// UpdateGoal validates and applies an edit.
func (s *Service) UpdateGoal(ctx context.Context, id string, input UpdateGoalInput) (*Goal, error) {
	name, err := validateGoalFields(input.Name, input.TargetAmount)
	if err != nil {
		return nil, err
	}
	input.Name = name
	return s.repo.UpdateGoal(ctx, id, input)
}

// Contribute adds a positive amount toward the goal.
func (s *Service) Contribute(ctx context.Context, id string, amount decimal.Decimal) (*Goal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("contribution must be positive")
	}
	return s.repo.Contribute(ctx, id, amount)
}

// DeleteGoal removes a goal.
func (s *Service) DeleteGoal(ctx context.Context, id string) error {
	return s.repo.DeleteGoal(ctx, id)
}

// DueSoon lists underfunded goals whose deadline falls inside the window.
func (s *Service) DueSoon(ctx context.Context, withinDays int) ([]Goal, error) {
	if withinDays <= 0 {
		withinDays = 7
	}
	return s.repo.ListDueSoon(ctx, withinDays)
}
