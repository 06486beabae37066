package directory

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ledgerdesk/ledgerdesk/internal/access"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// TokenVerifier resolves a bearer token minted by the hosted auth service to
// a user ID.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Middleware resolves the request identity (cookie session or bearer token)
// and stores the assembled access context before any guard runs. Requests
// without identity proceed with the zero context so guards can answer 401.
type Middleware struct {
	Service *Service
	Tokens  TokenVerifier
	Logger  *slog.Logger
}

// Handler returns the chi-compatible middleware.
func (m Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var userID, activeBusiness string
		if sess := shared.SessionFromContext(ctx); sess != nil && sess.User() != "" {
			userID = sess.User()
			activeBusiness = sess.ActiveBusiness()
		} else if m.Tokens != nil {
			if token := bearerToken(r); token != "" {
				id, err := m.Tokens.Verify(token)
				if err != nil {
					if m.Logger != nil {
						m.Logger.Warn("bearer token rejected", slog.Any("error", err))
					}
				} else {
					userID = id
				}
			}
		}

		ac, err := m.Service.AssembleContext(ctx, userID, activeBusiness)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("assemble access context", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error",
				"could not resolve request identity")
			return
		}

		next.ServeHTTP(w, r.WithContext(access.WithContext(ctx, ac)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
