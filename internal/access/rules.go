package access

import "sort"

type ruleKey struct {
	Resource Resource
	Action   Action
	Role     Role
}

// ruleTable is the single source of truth for role-based decisions. Every
// (resource, action, role) triple the dashboard can reach must be listed
// here; anything missing is denied.
var ruleTable = map[ruleKey]Effect{
	// Clients own their businesses and everything recorded under them.
	{ResourceBusiness, ActionCreate, RoleClient}: EffectAllow,
	{ResourceBusiness, ActionRead, RoleClient}:   EffectAllowIfOwner,
	{ResourceBusiness, ActionUpdate, RoleClient}: EffectAllowIfOwner,
	{ResourceBusiness, ActionDelete, RoleClient}: EffectAllowIfOwner,

	{ResourceTransaction, ActionCreate, RoleClient}: EffectAllowIfOwner,
	{ResourceTransaction, ActionRead, RoleClient}:   EffectAllowIfOwner,
	{ResourceTransaction, ActionUpdate, RoleClient}: EffectAllowIfOwner,
	{ResourceTransaction, ActionDelete, RoleClient}: EffectAllowIfOwner,
	{ResourceTransaction, ActionExport, RoleClient}: EffectAllowIfOwner,

	{ResourceGoal, ActionCreate, RoleClient}: EffectAllow,
	{ResourceGoal, ActionRead, RoleClient}:   EffectAllowIfOwner,
	{ResourceGoal, ActionUpdate, RoleClient}: EffectAllowIfOwner,
	{ResourceGoal, ActionDelete, RoleClient}: EffectAllowIfOwner,

	{ResourceDocument, ActionCreate, RoleClient}: EffectAllowIfOwner,
	{ResourceDocument, ActionRead, RoleClient}:   EffectAllowIfOwner,
	{ResourceDocument, ActionUpdate, RoleClient}: EffectAllowIfOwner,
	{ResourceDocument, ActionDelete, RoleClient}: EffectAllowIfOwner,

	{ResourceReport, ActionRead, RoleClient}:   EffectAllowIfOwner,
	{ResourceReport, ActionExport, RoleClient}: EffectAllowIfOwner,

	{ResourceTask, ActionRead, RoleClient}:   EffectAllowIfOwner,
	{ResourceTask, ActionUpdate, RoleClient}: EffectAllowIfOwner,

	{ResourceUser, ActionRead, RoleClient}:   EffectAllowIfOwner,
	{ResourceUser, ActionUpdate, RoleClient}: EffectAllowIfOwner,

	// Accountants work inside businesses they are members of. They may
	// record and approve but never delete a client's books.
	{ResourceBusiness, ActionRead, RoleAccountant}:   EffectAllowIfOwner,
	{ResourceBusiness, ActionUpdate, RoleAccountant}: EffectAllowIfOwner,

	{ResourceTransaction, ActionCreate, RoleAccountant}:  EffectAllowIfOwner,
	{ResourceTransaction, ActionRead, RoleAccountant}:    EffectAllowIfOwner,
	{ResourceTransaction, ActionUpdate, RoleAccountant}:  EffectAllowIfOwner,
	{ResourceTransaction, ActionDelete, RoleAccountant}:  EffectDeny,
	{ResourceTransaction, ActionApprove, RoleAccountant}: EffectAllowIfOwner,
	{ResourceTransaction, ActionExport, RoleAccountant}:  EffectAllowIfOwner,

	{ResourceReport, ActionRead, RoleAccountant}:    EffectAllowIfOwner,
	{ResourceReport, ActionApprove, RoleAccountant}: EffectAllowIfOwner,
	{ResourceReport, ActionExport, RoleAccountant}:  EffectAllowIfOwner,

	{ResourceTask, ActionCreate, RoleAccountant}:  EffectAllowIfOwner,
	{ResourceTask, ActionRead, RoleAccountant}:    EffectAllowIfOwner,
	{ResourceTask, ActionUpdate, RoleAccountant}:  EffectAllowIfOwner,
	{ResourceTask, ActionApprove, RoleAccountant}: EffectAllowIfOwner,

	{ResourceDocument, ActionCreate, RoleAccountant}: EffectAllowIfOwner,
	{ResourceDocument, ActionRead, RoleAccountant}:   EffectAllowIfOwner,

	{ResourceGoal, ActionRead, RoleAccountant}: EffectAllowIfOwner,

	{ResourceUser, ActionRead, RoleAccountant}:   EffectAllowIfOwner,
	{ResourceUser, ActionUpdate, RoleAccountant}: EffectAllowIfOwner,

	// Hard user deletion goes through the hosted platform, never the
	// dashboard. Listed explicitly so the table dump shows the denial.
	{ResourceUser, ActionDelete, RoleAdmin}: EffectDeny,
}

// nonOverridable lists (resource, action) pairs excluded from the admin
// short-circuit. Admins obey the rule table for these like everyone else.
var nonOverridable = map[[2]string]struct{}{
	{string(ResourceUser), string(ActionDelete)}: {},
}

// adminOverrides reports whether the admin short-circuit applies.
func adminOverrides(res Resource, act Action) bool {
	_, excluded := nonOverridable[[2]string{string(res), string(act)}]
	return !excluded
}

// RuleEntry is one row of the rule-table dump.
type RuleEntry struct {
	Resource       Resource
	Action         Action
	Role           Role
	Effect         Effect
	NonOverridable bool
}

// Rules returns the full rule table in stable order for auditing.
func Rules() []RuleEntry {
	entries := make([]RuleEntry, 0, len(ruleTable))
	for key, effect := range ruleTable {
		entries = append(entries, RuleEntry{
			Resource:       key.Resource,
			Action:         key.Action,
			Role:           key.Role,
			Effect:         effect,
			NonOverridable: !adminOverrides(key.Resource, key.Action),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Resource != b.Resource {
			return a.Resource < b.Resource
		}
		if a.Action != b.Action {
			return a.Action < b.Action
		}
		return a.Role < b.Role
	})
	return entries
}
