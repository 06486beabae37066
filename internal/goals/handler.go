package goals

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/access"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

// Handler manages goal endpoints, mounted per business.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     access.Guard
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard access.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers goal routes under a business.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.guard.RequireFeature(access.FeatureGoalTracking))
	r.Post("/", h.createGoal)
	r.Get("/", h.listGoals)
	r.Route("/{goalID}", func(r chi.Router) {
		r.Get("/", h.getGoal)
		r.Put("/", h.updateGoal)
		r.Delete("/", h.deleteGoal)
		r.Post("/contribute", h.contribute)
	})
}

type goalRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	TargetAmount string `json:"target_amount" validate:"required"`
	Deadline     string `json:"deadline" validate:"required,datetime=2006-01-02"`
}

type contributeRequest struct {
	Amount string `json:"amount" validate:"required"`
}

type goalResponse struct {
	ID           string `json:"id"`
	BusinessID   string `json:"business_id"`
	Name         string `json:"name"`
	TargetAmount string `json:"target_amount"`
	SavedAmount  string `json:"saved_amount"`
	Progress     string `json:"progress"`
	Deadline     string `json:"deadline"`
}

func toResponse(goal *Goal) goalResponse {
	return goalResponse{
		ID:           goal.ID,
		BusinessID:   goal.BusinessID,
		Name:         goal.Name,
		TargetAmount: goal.TargetAmount.String(),
		SavedAmount:  goal.SavedAmount.String(),
		Progress:     goal.Progress().String(),
		Deadline:     goal.Deadline.Format("2006-01-02"),
	}
}

func (h *Handler) decodeGoal(w http.ResponseWriter, r *http.Request) (string, decimal.Decimal, time.Time, bool) {
	var req goalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return "", decimal.Decimal{}, time.Time{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return "", decimal.Decimal{}, time.Time{}, false
	}
	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return "", decimal.Decimal{}, time.Time{}, false
	}
	deadline, _ := time.Parse("2006-01-02", req.Deadline)
	return req.Name, target, deadline, true
}

func (h *Handler) createGoal(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if !h.guard.Authorize(w, r, access.ResourceGoal, access.ActionCreate,
		&access.Ownership{BusinessID: businessID}) {
		return
	}
	name, target, deadline, ok := h.decodeGoal(w, r)
	if !ok {
		return
	}
	ac := access.FromContext(r.Context())
	goal, err := h.service.CreateGoal(r.Context(), CreateGoalInput{
		BusinessID:   businessID,
		CreatedBy:    ac.UserID,
		Name:         name,
		TargetAmount: target,
		Deadline:     deadline,
	})
	if err != nil {
		h.logger.Error("create goal", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(goal))
}

func (h *Handler) listGoals(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if !h.guard.Authorize(w, r, access.ResourceGoal, access.ActionRead,
		&access.Ownership{BusinessID: businessID}) {
		return
	}
	goals, err := h.service.ListGoals(r.Context(), businessID)
	if err != nil {
		h.logger.Error("list goals", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]goalResponse, 0, len(goals))
	for i := range goals {
		out = append(out, toResponse(&goals[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) loadGuarded(w http.ResponseWriter, r *http.Request, act access.Action) *Goal {
	id := chi.URLParam(r, "goalID")
	goal, err := h.service.GetGoal(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return nil
	}
	own := &access.Ownership{OwnerID: goal.CreatedBy, BusinessID: goal.BusinessID}
	if !h.guard.Authorize(w, r, access.ResourceGoal, act, own) {
		return nil
	}
	return goal
}

func (h *Handler) getGoal(w http.ResponseWriter, r *http.Request) {
	goal := h.loadGuarded(w, r, access.ActionRead)
	if goal == nil {
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(goal))
}

func (h *Handler) updateGoal(w http.ResponseWriter, r *http.Request) {
	goal := h.loadGuarded(w, r, access.ActionUpdate)
	if goal == nil {
		return
	}
	name, target, deadline, ok := h.decodeGoal(w, r)
	if !ok {
		return
	}
	updated, err := h.service.UpdateGoal(r.Context(), goal.ID, UpdateGoalInput{
		Name:         name,
		TargetAmount: target,
		Deadline:     deadline,
	})
	if err != nil {
		h.logger.Error("update goal", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) contribute(w http.ResponseWriter, r *http.Request) {
	goal := h.loadGuarded(w, r, access.ActionUpdate)
	if goal == nil {
		return
	}
	var req contributeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	updated, err := h.service.Contribute(r.Context(), goal.ID, amount)
	if err != nil {
		h.logger.Error("contribute to goal", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) deleteGoal(w http.ResponseWriter, r *http.Request) {
	goal := h.loadGuarded(w, r, access.ActionDelete)
	if goal == nil {
		return
	}
	if err := h.service.DeleteGoal(r.Context(), goal.ID); err != nil {
		h.logger.Error("delete goal", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
