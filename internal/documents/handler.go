package documents

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerdesk/ledgerdesk/internal/access"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

// Handler manages document metadata endpoints, mounted per business.
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

// MountRoutes registers document routes under a business.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.guard.RequireFeature(access.FeatureDocumentStorage))
	r.Post("/", h.registerDocument)
	r.Get("/", h.listDocuments)
	r.Route("/{documentID}", func(r chi.Router) {
		r.Get("/", h.getDocument)
		r.Delete("/", h.deleteDocument)
	})
}

type documentRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	StorageKey string `json:"storage_key" validate:"required,max=500"`
	MimeType   string `json:"mime_type" validate:"required"`
	SizeBytes  int64  `json:"size_bytes" validate:"required,gt=0"`
}

type documentResponse struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	Name       string `json:"name"`
	StorageKey string `json:"storage_key"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
	CreatedAt  string `json:"created_at"`
}

func toResponse(doc *Document) documentResponse {
	return documentResponse{
		ID:         doc.ID,
		BusinessID: doc.BusinessID,
		Name:       doc.Name,
		StorageKey: doc.StorageKey,
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
		CreatedAt:  doc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *Handler) registerDocument(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if !h.guard.Authorize(w, r, access.ResourceDocument, access.ActionCreate,
		&access.Ownership{BusinessID: businessID}) {
		return
	}
	var req documentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	ac := access.FromContext(r.Context())
	doc, err := h.service.RegisterDocument(r.Context(), CreateDocumentInput{
		BusinessID: businessID,
		UploadedBy: ac.UserID,
		Name:       req.Name,
		StorageKey: req.StorageKey,
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
	})
	if err != nil {
		h.logger.Error("register document", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(doc))
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if !h.guard.Authorize(w, r, access.ResourceDocument, access.ActionRead,
		&access.Ownership{BusinessID: businessID}) {
		return
	}
	docs, err := h.service.ListDocuments(r.Context(), businessID)
	if err != nil {
		h.logger.Error("list documents", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toResponse(&docs[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) loadGuarded(w http.ResponseWriter, r *http.Request, act access.Action) *Document {
	id := chi.URLParam(r, "documentID")
	doc, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return nil
	}
	own := &access.Ownership{OwnerID: doc.UploadedBy, BusinessID: doc.BusinessID}
	if !h.guard.Authorize(w, r, access.ResourceDocument, act, own) {
		return nil
	}
	return doc
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	doc := h.loadGuarded(w, r, access.ActionRead)
	if doc == nil {
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(doc))
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	doc := h.loadGuarded(w, r, access.ActionDelete)
	if doc == nil {
		return
	}
	if err := h.service.DeleteDocument(r.Context(), doc.ID); err != nil {
		h.logger.Error("delete document", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
