package directory

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerdesk/ledgerdesk/internal/access"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// RepositoryPort defines data access methods for identity lookups.
type RepositoryPort interface {
	GetProfile(ctx context.Context, userID string) (Profile, error)
	ListMemberships(ctx context.Context, userID string) ([]Membership, error)
}

// Service assembles access contexts from hosted identity data.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// AssembleContext loads the user profile and memberships in parallel and
// builds the access context for one request. A missing or deactivated user
// yields the zero context, which downstream checks treat as unauthenticated.
func (s *Service) AssembleContext(ctx context.Context, userID, activeBusinessID string) (access.Context, error) {
	if userID == "" {
		return access.Context{}, nil
	}

	var (
		profile     Profile
		memberships []Membership
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.repo.GetProfile(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		memberships, err = s.repo.ListMemberships(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return access.Context{}, nil
		}
		return access.Context{}, err
	}
	if !profile.IsActive {
		return access.Context{}, nil
	}

	ac := access.Context{
		UserID:      profile.ID,
		Tier:        access.ParseTier(profile.Tier),
		BusinessIDs: make(map[string]struct{}, len(memberships)),
	}
	if role, ok := access.ParseRole(profile.Role); ok {
		ac.Role = role
	} else {
		// Unknown labels stay as-is: the decider denies them without
		// mistaking them for an unauthenticated request.
		ac.Role = access.Role(profile.Role)
	}

	for _, m := range memberships {
		ac.BusinessIDs[m.BusinessID] = struct{}{}
		if activeBusinessID != "" && m.BusinessID == activeBusinessID {
			ac.BusinessID = activeBusinessID
			switch m.Relation {
			case string(access.BusinessRoleOwner):
				ac.BusinessRole = access.BusinessRoleOwner
				ac.IsOwner = true
			default:
				ac.BusinessRole = access.BusinessRoleMember
			}
		}
	}
	return ac, nil
}
