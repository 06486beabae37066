package access

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

// Denial describes a rejected permission check for the audit trail.
type Denial struct {
	UserID   string
	Role     Role
	Resource Resource
	Action   Action
	Decision Decision
	Path     string
}

// DenialRecorder persists denied decisions. The decider itself never logs;
// auditing is the guard's job.
type DenialRecorder interface {
	RecordDenial(ctx context.Context, d Denial)
}

// Guard wires authorization checks into HTTP handlers. A protected route
// evaluates exactly one decision before the handler runs and renders a
// distinct fallback per decision: 401 for missing identity, 403 for missing
// permission, 402 for a locked subscription feature.
type Guard struct {
	Logger *slog.Logger
	Audit  DenialRecorder
}

// Require gates a route on a role-level decision with no record ownership.
// Record-scoped checks belong in handlers via Guard.Authorize.
func (g Guard) Require(res Resource, act Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.Authorize(w, r, res, act, nil) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireFeature gates a route on the subscription tier of the requester.
func (g Guard) RequireFeature(feature string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac := FromContext(r.Context())
			if ac.Role == "" {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "log in to continue")
				return
			}
			if !HasFeature(ac.Tier, feature) {
				httpx.Problem(w, http.StatusPaymentRequired, "Upgrade Required",
					"your plan does not include "+feature)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authorize runs a single decision and writes the failure response itself.
// It returns true when the handler may proceed.
func (g Guard) Authorize(w http.ResponseWriter, r *http.Request, res Resource, act Action, own *Ownership) bool {
	ac := FromContext(r.Context())
	decision := Check(ac, res, act, own)
	if decision.Allowed() {
		return true
	}

	if g.Logger != nil {
		g.Logger.Warn("access denied",
			slog.String("user", ac.UserID),
			slog.String("role", string(ac.Role)),
			slog.String("resource", string(res)),
			slog.String("action", string(act)),
			slog.String("decision", decision.String()),
			slog.String("path", r.URL.Path),
		)
	}
	if g.Audit != nil && decision == DecisionDeny {
		g.Audit.RecordDenial(r.Context(), Denial{
			UserID:   ac.UserID,
			Role:     ac.Role,
			Resource: res,
			Action:   act,
			Decision: decision,
			Path:     r.URL.Path,
		})
	}

	switch decision {
	case DecisionDenyUnauthenticated:
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "log in to continue")
	default:
		httpx.Problem(w, http.StatusForbidden, "Forbidden",
			"you do not have permission to "+string(act)+" this "+string(res))
	}
	return false
}
