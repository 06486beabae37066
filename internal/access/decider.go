// Package access is the authorization core of LedgerDesk. Decisions are a
// pure lookup over a static rule table plus caller-supplied context; the
// package performs no I/O and keeps no state between calls.
package access

import "fmt"

// Check decides whether the context may perform act on res, optionally
// against a specific record's ownership data.
//
// The decision is fail-closed: a triple missing from the rule table is
// denied. An empty role yields DecisionDenyUnauthenticated so callers can
// prompt for login instead of rendering a forbidden message. Passing a
// resource or action outside the known enumerations is a programmer error
// and panics.
func Check(ctx Context, res Resource, act Action, own *Ownership) Decision {
	if !res.Valid() {
		panic(fmt.Sprintf("access: unknown resource %q", res))
	}
	if !act.Valid() {
		panic(fmt.Sprintf("access: unknown action %q", act))
	}

	if ctx.Role == "" {
		return DecisionDenyUnauthenticated
	}
	role, ok := ParseRole(string(ctx.Role))
	if !ok {
		return DecisionDeny
	}

	if role == RoleAdmin && adminOverrides(res, act) {
		return DecisionAllow
	}

	effect, ok := ruleTable[ruleKey{Resource: res, Action: act, Role: role}]
	if !ok {
		return DecisionDeny
	}

	switch effect {
	case EffectAllow:
		return DecisionAllow
	case EffectAllowIfOwner:
		if ownershipSatisfied(ctx, own) {
			return DecisionAllow
		}
		return DecisionDeny
	default:
		return DecisionDeny
	}
}

// ownershipSatisfied checks the three accepted ownership proofs: the record
// belongs to the requester, the requester owns the record's business, or the
// record's business is among the requester's memberships. Omitting ownership
// entirely always fails. The IsOwner flag refers to the context's business
// only; a record scoped to a different business never matches it.
func ownershipSatisfied(ctx Context, own *Ownership) bool {
	if own == nil {
		return false
	}
	if own.OwnerID != "" && ctx.UserID != "" && own.OwnerID == ctx.UserID {
		return true
	}
	if ctx.IsOwner && (own.BusinessID == "" || own.BusinessID == ctx.BusinessID) {
		return true
	}
	return ctx.MemberOf(own.BusinessID)
}
