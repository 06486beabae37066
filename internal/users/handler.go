package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerdesk/ledgerdesk/internal/access"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

// Handler manages account endpoints.
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

// MountRoutes registers account routes. The bare list and admin edits pass
// only for admins: client and accountant rules on user records are
// ownership scoped, so without a matching owner they fall through to deny.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listAccounts)
	r.Route("/{userID}", func(r chi.Router) {
		r.Get("/", h.getAccount)
		r.Put("/profile", h.updateProfile)
		r.Put("/admin", h.adminUpdate)
	})
}

type profileRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

type adminUpdateRequest struct {
	Role             string `json:"role" validate:"required"`
	SubscriptionTier string `json:"subscription_tier" validate:"required"`
	IsActive         bool   `json:"is_active"`
}

type accountResponse struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	SubscriptionTier string `json:"subscription_tier"`
	IsActive         bool   `json:"is_active"`
}

func toResponse(acct *Account) accountResponse {
	return accountResponse{
		ID:               acct.ID,
		Email:            acct.Email,
		Name:             acct.Name,
		Role:             acct.Role,
		SubscriptionTier: acct.SubscriptionTier,
		IsActive:         acct.IsActive,
	}
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	if !h.guard.Authorize(w, r, access.ResourceUser, access.ActionRead, nil) {
		return
	}
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))
	accounts, err := h.service.ListAccounts(r.Context(), ListFilter{
		Role:   query.Get("role"),
		Search: query.Get("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	out := make([]accountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, toResponse(&accounts[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	if !h.guard.Authorize(w, r, access.ResourceUser, access.ActionRead,
		&access.Ownership{OwnerID: id}) {
		return
	}
	acct, err := h.service.GetAccount(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(acct))
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	if !h.guard.Authorize(w, r, access.ResourceUser, access.ActionUpdate,
		&access.Ownership{OwnerID: id}) {
		return
	}
	var req profileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	acct, err := h.service.UpdateProfile(r.Context(), id, UpdateProfileInput{Name: req.Name})
	if err != nil {
		h.logger.Error("update profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(acct))
}

func (h *Handler) adminUpdate(w http.ResponseWriter, r *http.Request) {
	// Nil ownership: only the admin short-circuit can allow this.
	if !h.guard.Authorize(w, r, access.ResourceUser, access.ActionUpdate, nil) {
		return
	}
	var req adminUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	acct, err := h.service.AdminUpdate(r.Context(), chi.URLParam(r, "userID"), AdminUpdateInput{
		Role:             req.Role,
		SubscriptionTier: req.SubscriptionTier,
		IsActive:         req.IsActive,
	})
	if err != nil {
		h.logger.Error("admin update account", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(acct))
}
