package access

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func clientContext(userID string) Context {
	return Context{
		UserID: userID,
		Role:   RoleClient,
		Tier:   TierBasic,
	}
}

func TestCheckOwnerDeletesOwnTransaction(t *testing.T) {
	ctx := clientContext("u1")
	decision := Check(ctx, ResourceTransaction, ActionDelete, &Ownership{OwnerID: "u1"})
	require.Equal(t, DecisionAllow, decision)
}

func TestCheckForeignRecordDenied(t *testing.T) {
	ctx := clientContext("u2")
	decision := Check(ctx, ResourceTransaction, ActionDelete, &Ownership{OwnerID: "u1"})
	require.Equal(t, DecisionDeny, decision)
}

func TestCheckMissingOwnershipDenied(t *testing.T) {
	// An AllowIfOwner rule without ownership proof must deny, even for an
	// otherwise matching role.
	ctx := clientContext("u1")
	decision := Check(ctx, ResourceTransaction, ActionDelete, nil)
	require.Equal(t, DecisionDeny, decision)
}

func TestCheckUnauthenticated(t *testing.T) {
	decision := Check(Context{}, ResourceReport, ActionRead, nil)
	require.Equal(t, DecisionDenyUnauthenticated, decision)
}

func TestCheckAdminShortCircuit(t *testing.T) {
	ctx := Context{UserID: "a1", Role: RoleAdmin}
	for _, entry := range Rules() {
		if entry.NonOverridable {
			continue
		}
		decision := Check(ctx, entry.Resource, entry.Action, nil)
		require.Equal(t, DecisionAllow, decision,
			"admin should bypass %s/%s", entry.Resource, entry.Action)
	}
	require.Equal(t, DecisionAllow, Check(ctx, ResourceBusiness, ActionDelete, nil))
}

func TestCheckNonOverridableBindsAdmin(t *testing.T) {
	ctx := Context{UserID: "a1", Role: RoleAdmin}
	decision := Check(ctx, ResourceUser, ActionDelete, &Ownership{OwnerID: "a1"})
	require.Equal(t, DecisionDeny, decision)
}

func TestCheckFailClosedDefault(t *testing.T) {
	// Every triple absent from the rule table denies, across the full
	// enumeration cross product.
	resources := []Resource{
		ResourceBusiness, ResourceTransaction, ResourceReport, ResourceTask,
		ResourceUser, ResourceDocument, ResourceGoal,
	}
	actions := []Action{
		ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionApprove, ActionExport,
	}
	roles := []Role{RoleClient, RoleAccountant}

	listed := make(map[ruleKey]struct{}, len(ruleTable))
	for key := range ruleTable {
		listed[key] = struct{}{}
	}

	for _, res := range resources {
		for _, act := range actions {
			for _, role := range roles {
				if _, ok := listed[ruleKey{res, act, role}]; ok {
					continue
				}
				ctx := Context{UserID: "u1", Role: role, IsOwner: true}
				require.Equal(t, DecisionDeny, Check(ctx, res, act, &Ownership{OwnerID: "u1"}),
					"unlisted triple %s/%s/%s must deny", res, act, role)
			}
		}
	}
}

func TestCheckBusinessMembershipFallback(t *testing.T) {
	ctx := Context{
		UserID:      "acc1",
		Role:        RoleAccountant,
		BusinessIDs: map[string]struct{}{"b7": {}},
	}

	allowed := Check(ctx, ResourceTransaction, ActionRead, &Ownership{OwnerID: "u9", BusinessID: "b7"})
	require.Equal(t, DecisionAllow, allowed)

	denied := Check(ctx, ResourceTransaction, ActionRead, &Ownership{OwnerID: "u9", BusinessID: "b8"})
	require.Equal(t, DecisionDeny, denied)
}

func TestCheckBusinessOwnerFlag(t *testing.T) {
	ctx := Context{UserID: "u1", Role: RoleClient, IsOwner: true, BusinessID: "b1"}
	decision := Check(ctx, ResourceTransaction, ActionUpdate, &Ownership{OwnerID: "u9", BusinessID: "b1"})
	require.Equal(t, DecisionAllow, decision)
}

func TestCheckOwnerFlagScopedToOwnBusiness(t *testing.T) {
	// Owning one business grants nothing on another business's records.
	ctx := Context{
		UserID:      "u1",
		Role:        RoleClient,
		IsOwner:     true,
		BusinessID:  "biz-a",
		BusinessIDs: map[string]struct{}{"biz-a": {}},
	}

	for _, act := range []Action{ActionRead, ActionUpdate, ActionDelete} {
		decision := Check(ctx, ResourceTransaction, act, &Ownership{OwnerID: "victim", BusinessID: "biz-b"})
		require.Equal(t, DecisionDeny, decision, "owner of biz-a must not %s biz-b's transactions", act)
	}

	allowed := Check(ctx, ResourceTransaction, ActionRead, &Ownership{OwnerID: "victim", BusinessID: "biz-a"})
	require.Equal(t, DecisionAllow, allowed)
}

func TestCheckExplicitDenyBeatsOwnership(t *testing.T) {
	ctx := Context{UserID: "acc1", Role: RoleAccountant, IsOwner: true}
	decision := Check(ctx, ResourceTransaction, ActionDelete, &Ownership{OwnerID: "acc1"})
	require.Equal(t, DecisionDeny, decision)
}

func TestCheckConsultantAlias(t *testing.T) {
	ctx := Context{UserID: "c1", Role: Role("consultant"), BusinessIDs: map[string]struct{}{"b1": {}}}
	decision := Check(ctx, ResourceReport, ActionRead, &Ownership{BusinessID: "b1"})
	require.Equal(t, DecisionAllow, decision)
}

func TestCheckUnknownRoleDenied(t *testing.T) {
	ctx := Context{UserID: "u1", Role: Role("superuser")}
	require.Equal(t, DecisionDeny, Check(ctx, ResourceReport, ActionRead, nil))
}

func TestCheckDeterministic(t *testing.T) {
	ctx := clientContext("u1")
	own := &Ownership{OwnerID: "u1", BusinessID: "b1"}
	first := Check(ctx, ResourceGoal, ActionUpdate, own)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Check(ctx, ResourceGoal, ActionUpdate, own))
	}
}

func TestCheckPanicsOnUnknownEnum(t *testing.T) {
	require.Panics(t, func() {
		Check(clientContext("u1"), Resource("ledger"), ActionRead, nil)
	})
	require.Panics(t, func() {
		Check(clientContext("u1"), ResourceGoal, Action("archive"), nil)
	})
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
		ok   bool
	}{
		{"client", RoleClient, true},
		{"accountant", RoleAccountant, true},
		{"consultant", RoleAccountant, true},
		{"admin", RoleAdmin, true},
		{"root", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.raw)
		require.Equal(t, tc.ok, ok, tc.raw)
		require.Equal(t, tc.want, got, tc.raw)
	}
}

func TestRulesDumpStable(t *testing.T) {
	first := Rules()
	second := Rules()
	require.Equal(t, first, second)
	require.Len(t, first, len(ruleTable))

	var sawNonOverridable bool
	for _, entry := range first {
		if entry.Resource == ResourceUser && entry.Action == ActionDelete {
			require.True(t, entry.NonOverridable)
			sawNonOverridable = true
		}
	}
	require.True(t, sawNonOverridable)
}
