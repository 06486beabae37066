package users

import (
	"context"
	"errors"
	"strings"

	"github.com/ledgerdesk/ledgerdesk/internal/access"
)

// RepositoryPort defines data access methods for accounts.
type RepositoryPort interface {
	GetAccount(ctx context.Context, id string) (*Account, error)
	ListAccounts(ctx context.Context, filter ListFilter) ([]Account, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*Account, error)
	AdminUpdate(ctx context.Context, id string, input AdminUpdateInput) (*Account, error)
}

// Service handles account management logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// GetAccount fetches an account by ID.
func (s *Service) GetAccount(ctx context.Context, id string) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// ListAccounts lists accounts with the filter applied.
func (s *Service) ListAccounts(ctx context.Context, filter ListFilter) ([]Account, error) {
	if filter.Role != "" {
		if _, ok := access.ParseRole(filter.Role); !ok {
			return nil, errors.New("unknown role filter")
		}
	}
	return s.repo.ListAccounts(ctx, filter)
}

// UpdateProfile edits self-service attributes.
func (s *Service) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*Account, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, errors.New("name required")
	}
	return s.repo.UpdateProfile(ctx, id, input)
}

// AdminUpdate edits role, tier and active flag after validating both enums.
func (s *Service) AdminUpdate(ctx context.Context, id string, input AdminUpdateInput) (*Account, error) {
	role, ok := access.ParseRole(input.Role)
	if !ok {
		return nil, errors.New("unknown role")
	}
	input.Role = string(role)
	tier := access.ParseTier(input.SubscriptionTier)
	if string(tier) != input.SubscriptionTier {
		return nil, errors.New("unknown subscription tier")
	}
	return s.repo.AdminUpdate(ctx, id, input)
}
