package access

// Role is the coarse identity category attached to a user account.
type Role string

// Known roles. Role assignment happens at account creation and is mutable
// only by an admin through the users module.
const (
	RoleClient     Role = "client"
	RoleAccountant Role = "accountant"
	RoleAdmin      Role = "admin"
)

// roleAliases maps informal labels that appear in user rows to first-class
// authorization roles. "consultant" is folded into accountant.
var roleAliases = map[string]Role{
	"consultant": RoleAccountant,
}

// ParseRole normalizes a raw role label. The second return value is false
// when the label does not resolve to a known role.
func ParseRole(raw string) (Role, bool) {
	if alias, ok := roleAliases[raw]; ok {
		return alias, true
	}
	switch Role(raw) {
	case RoleClient, RoleAccountant, RoleAdmin:
		return Role(raw), true
	}
	return "", false
}

// Action is a verb applicable to a protected resource.
type Action string

// Known actions. Not every resource supports the full set.
const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionExport  Action = "export"
)

// Valid reports whether the action is a member of the known enumeration.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionApprove, ActionExport:
		return true
	}
	return false
}

// Resource is a protected entity type.
type Resource string

// Known resources.
const (
	ResourceBusiness    Resource = "business"
	ResourceTransaction Resource = "transaction"
	ResourceReport      Resource = "report"
	ResourceTask        Resource = "task"
	ResourceUser        Resource = "user"
	ResourceDocument    Resource = "document"
	ResourceGoal        Resource = "goal"
)

// Valid reports whether the resource is a member of the known enumeration.
func (r Resource) Valid() bool {
	switch r {
	case ResourceBusiness, ResourceTransaction, ResourceReport, ResourceTask,
		ResourceUser, ResourceDocument, ResourceGoal:
		return true
	}
	return false
}

// Effect is the outcome stored in the rule table.
type Effect int

// Rule effects.
const (
	EffectDeny Effect = iota
	EffectAllow
	EffectAllowIfOwner
)

// String returns the table-dump label for the effect.
func (e Effect) String() string {
	switch e {
	case EffectAllow:
		return "allow"
	case EffectAllowIfOwner:
		return "allow-if-owner"
	default:
		return "deny"
	}
}

// Decision is the tri-state result of a permission check.
type Decision int

// Decision values. DenyUnauthenticated is distinct from Deny so callers can
// prompt for login instead of showing a generic forbidden message.
const (
	DecisionDeny Decision = iota
	DecisionAllow
	DecisionDenyUnauthenticated
)

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d == DecisionAllow
}

// String returns a stable label for logs and the CLI simulator.
func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionDenyUnauthenticated:
		return "deny-unauthenticated"
	default:
		return "deny"
	}
}

// BusinessRole describes the requester's relationship to the active business.
type BusinessRole string

// Business membership relations.
const (
	BusinessRoleOwner  BusinessRole = "owner"
	BusinessRoleMember BusinessRole = "member"
)

// Context carries everything a single permission check needs. It is
// assembled per request by the directory service and never persisted.
type Context struct {
	UserID       string
	Role         Role // empty means unauthenticated
	BusinessRole BusinessRole
	IsOwner      bool
	BusinessID   string
	Tier         Tier
	BusinessIDs  map[string]struct{}
}

// MemberOf reports whether the context includes membership in the business.
func (c Context) MemberOf(businessID string) bool {
	if businessID == "" {
		return false
	}
	_, ok := c.BusinessIDs[businessID]
	return ok
}

// Ownership is the optional per-record proof supplied to a check.
type Ownership struct {
	OwnerID    string
	BusinessID string
}
