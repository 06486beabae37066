package business

import (
	"context"
	"errors"
	"strings"
)

// RepositoryPort defines data access methods for businesses.
type RepositoryPort interface {
	CreateBusiness(ctx context.Context, input CreateBusinessInput) (*Business, error)
	GetBusiness(ctx context.Context, id string) (*Business, error)
	ListBusinessesForUser(ctx context.Context, userID string) ([]Business, error)
	CountOwnedBusinesses(ctx context.Context, userID string) (int, error)
	UpdateBusiness(ctx context.Context, id string, input UpdateBusinessInput) (*Business, error)
	DeleteBusiness(ctx context.Context, id string) error
	AddMember(ctx context.Context, businessID, userID, relation string) error
	RemoveMember(ctx context.Context, businessID, userID string) error
	ListMembers(ctx context.Context, businessID string) ([]Member, error)
	TransferOwnership(ctx context.Context, businessID, newOwnerID string) error
}

// Service handles business management logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateBusiness registers a new business owned by the creating user.
func (s *Service) CreateBusiness(ctx context.Context, input CreateBusinessInput) (*Business, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, errors.New("business name required")
	}
	if input.OwnerID == "" {
		return nil, errors.New("owner ID required")
	}
	if input.Currency == "" {
		input.Currency = "USD"
	}
	return s.repo.CreateBusiness(ctx, input)
}

// CountOwned returns how many businesses the user currently owns.
func (s *Service) CountOwned(ctx context.Context, userID string) (int, error) {
	return s.repo.CountOwnedBusinesses(ctx, userID)
}

// GetBusiness fetches a business by ID.
func (s *Service) GetBusiness(ctx context.Context, id string) (*Business, error) {
	return s.repo.GetBusiness(ctx, id)
}

// ListBusinesses returns every business the user belongs to.
func (s *Service) ListBusinesses(ctx context.Context, userID string) ([]Business, error) {
	return s.repo.ListBusinessesForUser(ctx, userID)
}

// UpdateBusiness updates business attributes.
func (s *Service) UpdateBusiness(ctx context.Context, id string, input UpdateBusinessInput) (*Business, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, errors.New("business name required")
	}
	return s.repo.UpdateBusiness(ctx, id, input)
}

// DeleteBusiness removes the business and its memberships.
func (s *Service) DeleteBusiness(ctx context.Context, id string) error {
	return s.repo.DeleteBusiness(ctx, id)
}

// AddMember attaches a user as a plain member.
func (s *Service) AddMember(ctx context.Context, businessID, userID string) error {
	if userID == "" {
		return errors.New("user ID required")
	}
	return s.repo.AddMember(ctx, businessID, userID, "member")
}

// RemoveMember detaches a user. The owner cannot be removed, only replaced
// via TransferOwnership.
func (s *Service) RemoveMember(ctx context.Context, businessID, userID string) error {
	biz, err := s.repo.GetBusiness(ctx, businessID)
	if err != nil {
		return err
	}
	if biz.OwnerID == userID {
		return errors.New("owner cannot be removed from their business")
	}
	return s.repo.RemoveMember(ctx, businessID, userID)
}

// ListMembers returns the membership roster.
func (s *Service) ListMembers(ctx context.Context, businessID string) ([]Member, error) {
	return s.repo.ListMembers(ctx, businessID)
}

// TransferOwnership hands the business to an existing member.
func (s *Service) TransferOwnership(ctx context.Context, businessID, newOwnerID string) error {
	members, err := s.repo.ListMembers(ctx, businessID)
	if err != nil {
		return err
	}
	var isMember bool
	for _, m := range members {
		if m.UserID == newOwnerID {
			isMember = true
			break
		}
	}
	if !isMember {
		return errors.New("new owner must already be a member")
	}
	return s.repo.TransferOwnership(ctx, businessID, newOwnerID)
}
