package business

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerdesk/ledgerdesk/internal/access"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// Handler manages business endpoints.
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

// MountRoutes registers business routes. The nested callback mounts
// per-business modules inside the {businessID} subtree.
func (h *Handler) MountRoutes(r chi.Router, nested func(chi.Router)) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(access.ResourceBusiness, access.ActionCreate))
		r.Post("/", h.createBusiness)
	})
	r.Get("/", h.listBusinesses)
	r.Route("/{businessID}", func(r chi.Router) {
		r.Get("/", h.getBusiness)
		r.Put("/", h.updateBusiness)
		r.Delete("/", h.deleteBusiness)
		r.Post("/activate", h.activateBusiness)
		r.Get("/members", h.listMembers)
		r.Post("/members", h.addMember)
		r.Delete("/members/{userID}", h.removeMember)
		r.Post("/transfer", h.transferOwnership)
		if nested != nil {
			nested(r)
		}
	})
}

type businessRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

type businessResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	OwnerID  string `json:"owner_id"`
	Currency string `json:"currency"`
}

func toResponse(biz *Business) businessResponse {
	return businessResponse{ID: biz.ID, Name: biz.Name, OwnerID: biz.OwnerID, Currency: biz.Currency}
}

func (h *Handler) createBusiness(w http.ResponseWriter, r *http.Request) {
	var req businessRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	ac := access.FromContext(r.Context())

	// A second business requires the multi-business plan feature.
	owned, err := h.service.CountOwned(r.Context(), ac.UserID)
	if err != nil {
		h.logger.Error("count owned businesses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if owned >= 1 && !access.HasFeature(ac.Tier, access.FeatureMultiBusiness) {
		httpx.RespondError(w, httpx.ErrUpgradeRequired)
		return
	}

	biz, err := h.service.CreateBusiness(r.Context(), CreateBusinessInput{
		Name:     req.Name,
		OwnerID:  ac.UserID,
		Currency: req.Currency,
	})
	if err != nil {
		h.logger.Error("create business", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(biz))
}

func (h *Handler) listBusinesses(w http.ResponseWriter, r *http.Request) {
	ac := access.FromContext(r.Context())
	if ac.Role == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	businesses, err := h.service.ListBusinesses(r.Context(), ac.UserID)
	if err != nil {
		h.logger.Error("list businesses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]businessResponse, 0, len(businesses))
	for i := range businesses {
		out = append(out, toResponse(&businesses[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// loadGuarded fetches the business and runs the record-scoped decision.
func (h *Handler) loadGuarded(w http.ResponseWriter, r *http.Request, act access.Action) *Business {
	businessID := chi.URLParam(r, "businessID")
	biz, err := h.service.GetBusiness(r.Context(), businessID)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return nil
	}
	own := &access.Ownership{OwnerID: biz.OwnerID, BusinessID: biz.ID}
	if !h.guard.Authorize(w, r, access.ResourceBusiness, act, own) {
		return nil
	}
	return biz
}

func (h *Handler) getBusiness(w http.ResponseWriter, r *http.Request) {
	biz := h.loadGuarded(w, r, access.ActionRead)
	if biz == nil {
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(biz))
}

func (h *Handler) updateBusiness(w http.ResponseWriter, r *http.Request) {
	biz := h.loadGuarded(w, r, access.ActionUpdate)
	if biz == nil {
		return
	}
	var req businessRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = biz.Currency
	}
	updated, err := h.service.UpdateBusiness(r.Context(), biz.ID, UpdateBusinessInput{
		Name:     req.Name,
		Currency: currency,
	})
	if err != nil {
		h.logger.Error("update business", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) deleteBusiness(w http.ResponseWriter, r *http.Request) {
	biz := h.loadGuarded(w, r, access.ActionDelete)
	if biz == nil {
		return
	}
	if err := h.service.DeleteBusiness(r.Context(), biz.ID); err != nil {
		h.logger.Error("delete business", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// activateBusiness scopes the session to one business. Kept as explicit
// session state so permission checks never read ambient globals.
func (h *Handler) activateBusiness(w http.ResponseWriter, r *http.Request) {
	biz := h.loadGuarded(w, r, access.ActionRead)
	if biz == nil {
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	sess.SetActiveBusiness(biz.ID)
	httpx.JSON(w, http.StatusOK, map[string]string{"active_business": biz.ID})
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	biz := h.loadGuarded(w, r, access.ActionRead)
	if biz == nil {
		return
	}
	members, err := h.service.ListMembers(r.Context(), biz.ID)
	if err != nil {
		h.logger.Error("list members", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, members)
}

type memberRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	biz := h.loadGuarded(w, r, access.ActionUpdate)
	if biz == nil {
		return
	}
	var req memberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.AddMember(r.Context(), biz.ID, req.UserID); err != nil {
		h.logger.Error("add member", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	biz := h.loadGuarded(w, r, access.ActionUpdate)
	if biz == nil {
		return
	}
	userID := chi.URLParam(r, "userID")
	if err := h.service.RemoveMember(r.Context(), biz.ID, userID); err != nil {
		h.logger.Error("remove member", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) transferOwnership(w http.ResponseWriter, r *http.Request) {
	biz := h.loadGuarded(w, r, access.ActionUpdate)
	if biz == nil {
		return
	}
	var req memberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.TransferOwnership(r.Context(), biz.ID, req.UserID); err != nil {
		h.logger.Error("transfer ownership", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "transferred"})
}
