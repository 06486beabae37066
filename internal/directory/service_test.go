package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/access"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type memoryDirectoryRepo struct {
	profiles    map[string]Profile
	memberships map[string][]Membership
}

func newMemoryDirectoryRepo() *memoryDirectoryRepo {
	return &memoryDirectoryRepo{
		profiles:    make(map[string]Profile),
		memberships: make(map[string][]Membership),
	}
}

func (r *memoryDirectoryRepo) GetProfile(_ context.Context, userID string) (Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return Profile{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryDirectoryRepo) ListMemberships(_ context.Context, userID string) ([]Membership, error) {
	return r.memberships[userID], nil
}

func TestAssembleContext(t *testing.T) {
	repo := newMemoryDirectoryRepo()
	repo.profiles["u1"] = Profile{ID: "u1", Role: "client", Tier: "premium", IsActive: true}
	repo.memberships["u1"] = []Membership{
		{BusinessID: "b1", Relation: "owner"},
		{BusinessID: "b2", Relation: "member"},
	}
	svc := NewService(repo)

	ac, err := svc.AssembleContext(context.Background(), "u1", "b1")
	require.NoError(t, err)
	require.Equal(t, "u1", ac.UserID)
	require.Equal(t, access.RoleClient, ac.Role)
	require.Equal(t, access.TierPremium, ac.Tier)
	require.True(t, ac.IsOwner)
	require.Equal(t, access.BusinessRoleOwner, ac.BusinessRole)
	require.True(t, ac.MemberOf("b2"))
	require.False(t, ac.MemberOf("b9"))
}

func TestAssembledOwnerContextScopedToOwnBusiness(t *testing.T) {
	repo := newMemoryDirectoryRepo()
	repo.profiles["u1"] = Profile{ID: "u1", Role: "client", Tier: "basic", IsActive: true}
	repo.memberships["u1"] = []Membership{{BusinessID: "biz-a", Relation: "owner"}}
	svc := NewService(repo)

	ac, err := svc.AssembleContext(context.Background(), "u1", "biz-a")
	require.NoError(t, err)
	require.True(t, ac.IsOwner)

	foreign := access.Check(ac, access.ResourceTransaction, access.ActionRead,
		&access.Ownership{OwnerID: "victim", BusinessID: "biz-b"})
	require.Equal(t, access.DecisionDeny, foreign,
		"owner of biz-a must not read biz-b's transactions")

	own := access.Check(ac, access.ResourceTransaction, access.ActionRead,
		&access.Ownership{OwnerID: "victim", BusinessID: "biz-a"})
	require.Equal(t, access.DecisionAllow, own)
}

func TestAssembleContextMemberRelation(t *testing.T) {
	repo := newMemoryDirectoryRepo()
	repo.profiles["acc1"] = Profile{ID: "acc1", Role: "consultant", Tier: "basic", IsActive: true}
	repo.memberships["acc1"] = []Membership{{BusinessID: "b3", Relation: "member"}}
	svc := NewService(repo)

	ac, err := svc.AssembleContext(context.Background(), "acc1", "b3")
	require.NoError(t, err)
	require.Equal(t, access.RoleAccountant, ac.Role)
	require.False(t, ac.IsOwner)
	require.Equal(t, access.BusinessRoleMember, ac.BusinessRole)
}

func TestAssembleContextAnonymous(t *testing.T) {
	svc := NewService(newMemoryDirectoryRepo())
	ac, err := svc.AssembleContext(context.Background(), "", "")
	require.NoError(t, err)
	require.Empty(t, ac.Role)
}

func TestAssembleContextUnknownUser(t *testing.T) {
	svc := NewService(newMemoryDirectoryRepo())
	ac, err := svc.AssembleContext(context.Background(), "ghost", "")
	require.NoError(t, err)
	require.Empty(t, ac.Role)
}

func TestAssembleContextInactiveUser(t *testing.T) {
	repo := newMemoryDirectoryRepo()
	repo.profiles["u2"] = Profile{ID: "u2", Role: "client", IsActive: false}
	svc := NewService(repo)

	ac, err := svc.AssembleContext(context.Background(), "u2", "")
	require.NoError(t, err)
	require.Empty(t, ac.Role)
}

func TestAssembleContextUnknownRoleKept(t *testing.T) {
	repo := newMemoryDirectoryRepo()
	repo.profiles["u3"] = Profile{ID: "u3", Role: "superuser", IsActive: true}
	svc := NewService(repo)

	ac, err := svc.AssembleContext(context.Background(), "u3", "")
	require.NoError(t, err)
	require.Equal(t, access.Role("superuser"), ac.Role)
	require.Equal(t, access.DecisionDeny, access.Check(ac, access.ResourceReport, access.ActionRead, nil))
}
