package analytics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerdesk/ledgerdesk/internal/access"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

// Handler exposes the admin KPI endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   access.Guard
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard access.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers admin analytics routes. A nil ownership means only
// the admin short-circuit can produce an allow here.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/overview", h.overview)
	r.Get("/businesses/{businessID}/trend", h.trend)
	r.Post("/cache/bump", h.bumpCache)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	if !h.guard.Authorize(w, r, access.ResourceUser, access.ActionRead, nil) {
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		period = time.Now().UTC().Format("2006-01")
	}
	overview, err := h.service.Overview(r.Context(), period)
	if err != nil {
		h.logger.Error("analytics overview", slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	httpx.JSON(w, http.StatusOK, overview)
}

func (h *Handler) trend(w http.ResponseWriter, r *http.Request) {
	if !h.guard.Authorize(w, r, access.ResourceUser, access.ActionRead, nil) {
		return
	}
	months := 6
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
		months = parsed
	}
	points, err := h.service.Trend(r.Context(), chi.URLParam(r, "businessID"), months)
	if err != nil {
		h.logger.Error("analytics trend", slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	httpx.JSON(w, http.StatusOK, points)
}

func (h *Handler) bumpCache(w http.ResponseWriter, r *http.Request) {
	if !h.guard.Authorize(w, r, access.ResourceUser, access.ActionUpdate, nil) {
		return
	}
	if err := h.service.Invalidate(r.Context()); err != nil {
		h.logger.Error("bump analytics cache", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}
