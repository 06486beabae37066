package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerdesk/ledgerdesk/internal/analytics"
	"github.com/ledgerdesk/ledgerdesk/internal/auth"
	"github.com/ledgerdesk/ledgerdesk/internal/business"
	"github.com/ledgerdesk/ledgerdesk/internal/directory"
	"github.com/ledgerdesk/ledgerdesk/internal/documents"
	"github.com/ledgerdesk/ledgerdesk/internal/goals"
	"github.com/ledgerdesk/ledgerdesk/internal/observability"
	"github.com/ledgerdesk/ledgerdesk/internal/reports"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/tasks"
	"github.com/ledgerdesk/ledgerdesk/internal/transactions"
	"github.com/ledgerdesk/ledgerdesk/internal/users"
	"github.com/ledgerdesk/ledgerdesk/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	Directory      directory.Middleware

	AuthHandler         *auth.Handler
	BusinessHandler     *business.Handler
	TransactionsHandler *transactions.Handler
	GoalsHandler        *goals.Handler
	DocumentsHandler    *documents.Handler
	TasksHandler        *tasks.Handler
	ReportsHandler      *reports.Handler
	UsersHandler        *users.Handler
	AnalyticsHandler    *analytics.Handler
	JobHandler          *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with LedgerDesk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)
	r.Use(params.Directory.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	if params.BusinessHandler != nil {
		r.Route("/businesses", func(r chi.Router) {
			params.BusinessHandler.MountRoutes(r, func(r chi.Router) {
				if params.TransactionsHandler != nil {
					r.Route("/transactions", params.TransactionsHandler.MountRoutes)
				}
				if params.GoalsHandler != nil {
					r.Route("/goals", params.GoalsHandler.MountRoutes)
				}
				if params.DocumentsHandler != nil {
					r.Route("/documents", params.DocumentsHandler.MountRoutes)
				}
				if params.TasksHandler != nil {
					r.Route("/tasks", params.TasksHandler.MountRoutes)
				}
				if params.ReportsHandler != nil {
					r.Route("/reports", params.ReportsHandler.MountRoutes)
				}
			})
		})
	}

	if params.UsersHandler != nil {
		r.Route("/users", params.UsersHandler.MountRoutes)
	}
	if params.AnalyticsHandler != nil {
		r.Route("/admin/analytics", params.AnalyticsHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
