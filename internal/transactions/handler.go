package transactions

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

// Handler manages transaction endpoints, mounted per business.
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

// MountRoutes registers transaction routes under a business.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createTransaction)
	r.Get("/", h.listTransactions)
	r.Get("/summary", h.summarize)
	r.Route("/{transactionID}", func(r chi.Router) {
		r.Get("/", h.getTransaction)
		r.Put("/", h.updateTransaction)
		r.Delete("/", h.deleteTransaction)
	})
}

type transactionRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=income expense"`
	Category    string `json:"category" validate:"required,max=80"`
	Description string `json:"description" validate:"max=500"`
	Amount      string `json:"amount" validate:"required"`
	Currency    string `json:"currency" validate:"omitempty,len=3"`
	OccurredOn  string `json:"occurred_on" validate:"omitempty,datetime=2006-01-02"`
}

type transactionResponse struct {
	ID          string `json:"id"`
	BusinessID  string `json:"business_id"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	OccurredOn  string `json:"occurred_on"`
}

func toResponse(txn *Transaction) transactionResponse {
	return transactionResponse{
		ID:          txn.ID,
		BusinessID:  txn.BusinessID,
		Kind:        string(txn.Kind),
		Category:    txn.Category,
		Description: txn.Description,
		Amount:      txn.Amount.String(),
		Currency:    txn.Currency,
		OccurredOn:  txn.OccurredOn.Format("2006-01-02"),
	}
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (*transactionRequest, decimal.Decimal, time.Time, bool) {
	var req transactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return nil, decimal.Decimal{}, time.Time{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return nil, decimal.Decimal{}, time.Time{}, false
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return nil, decimal.Decimal{}, time.Time{}, false
	}
	var occurredOn time.Time
	if req.OccurredOn != "" {
		occurredOn, _ = time.Parse("2006-01-02", req.OccurredOn)
	}
	return &req, amount, occurredOn, true
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if !h.guard.Authorize(w, r, access.ResourceTransaction, access.ActionCreate,
		&access.Ownership{BusinessID: businessID}) {
		return
	}

	req, amount, occurredOn, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	ac := access.FromContext(r.Context())
	txn, err := h.service.RecordTransaction(r.Context(), CreateTransactionInput{
		BusinessID:  businessID,
		CreatedBy:   ac.UserID,
		Kind:        Kind(req.Kind),
		Category:    req.Category,
		Description: req.Description,
		Amount:      amount,
		Currency:    req.Currency,
		OccurredOn:  occurredOn,
	})
	if err != nil {
		h.logger.Error("record transaction", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(txn))
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if !h.guard.Authorize(w, r, access.ResourceTransaction, access.ActionRead,
		&access.Ownership{BusinessID: businessID}) {
		return
	}

	query := r.URL.Query()
	filter := ListFilter{
		Kind:     Kind(query.Get("kind")),
		Category: query.Get("category"),
	}
	if from := query.Get("from"); from != "" {
		filter.From, _ = time.Parse("2006-01-02", from)
	}
	if to := query.Get("to"); to != "" {
		filter.To, _ = time.Parse("2006-01-02", to)
	}

	txns, err := h.service.ListTransactions(r.Context(), businessID, filter)
	if err != nil {
		h.logger.Error("list transactions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]transactionResponse, 0, len(txns))
	for i := range txns {
		out = append(out, toResponse(&txns[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) summarize(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if !h.guard.Authorize(w, r, access.ResourceTransaction, access.ActionRead,
		&access.Ownership{BusinessID: businessID}) {
		return
	}

	period := r.URL.Query().Get("period")
	summary, err := h.service.Summarize(r.Context(), businessID, period)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// loadGuarded fetches the record and runs the record-scoped decision.
func (h *Handler) loadGuarded(w http.ResponseWriter, r *http.Request, act access.Action) *Transaction {
	id := chi.URLParam(r, "transactionID")
	txn, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return nil
	}
	own := &access.Ownership{OwnerID: txn.CreatedBy, BusinessID: txn.BusinessID}
	if !h.guard.Authorize(w, r, access.ResourceTransaction, act, own) {
		return nil
	}
	return txn
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	txn := h.loadGuarded(w, r, access.ActionRead)
	if txn == nil {
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(txn))
}

func (h *Handler) updateTransaction(w http.ResponseWriter, r *http.Request) {
	txn := h.loadGuarded(w, r, access.ActionUpdate)
	if txn == nil {
		return
	}
	req, amount, occurredOn, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	if occurredOn.IsZero() {
		occurredOn = txn.OccurredOn
	}
	updated, err := h.service.UpdateTransaction(r.Context(), txn.ID, UpdateTransactionInput{
		Kind:        Kind(req.Kind),
		Category:    req.Category,
		Description: req.Description,
		Amount:      amount,
		OccurredOn:  occurredOn,
	})
	if err != nil {
		h.logger.Error("update transaction", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	txn := h.loadGuarded(w, r, access.ActionDelete)
	if txn == nil {
		return
	}
	if err := h.service.DeleteTransaction(r.Context(), txn.ID); err != nil {
		h.logger.Error("delete transaction", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
