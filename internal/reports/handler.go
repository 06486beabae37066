package reports

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerdesk/ledgerdesk/internal/access"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// Handler manages report endpoints, mounted per business.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   access.Guard
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard access.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers report routes under a business. The monthly view
// is available on every tier; exports need the report_export feature.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/monthly", h.monthlySummary)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireFeature(access.FeatureReportExport))
		r.Get("/export.csv", h.exportCSV)
		r.Post("/exports", h.queueExport)
		r.Get("/exports", h.listExports)
		r.Get("/exports/{jobID}", h.getExport)
		r.Get("/exports/{jobID}/download", h.downloadExport)
	})
}

type summaryResponse struct {
	BusinessID string              `json:"business_id"`
	Period     string              `json:"period"`
	Income     string              `json:"income"`
	Expense    string              `json:"expense"`
	Net        string              `json:"net"`
	Categories []categoryTotalJSON `json:"categories"`
}

type categoryTotalJSON struct {
	Category string `json:"category"`
	Kind     string `json:"kind"`
	Total    string `json:"total"`
}

type exportRequest struct {
	Period string `json:"period"`
	Format string `json:"format"`
}

type jobResponse struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	Period     string `json:"period"`
	Format     string `json:"format"`
	Status     string `json:"status"`
	StorageKey string `json:"storage_key,omitempty"`
	Error      string `json:"error,omitempty"`
}

func toJobResponse(job *Job) jobResponse {
	return jobResponse{
		ID:         job.ID,
		BusinessID: job.BusinessID,
		Period:     job.Period,
		Format:     string(job.Format),
		Status:     string(job.Status),
		StorageKey: job.StorageKey,
		Error:      job.Error,
	}
}

func (h *Handler) monthlySummary(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if !h.guard.Authorize(w, r, access.ResourceReport, access.ActionRead,
		&access.Ownership{BusinessID: businessID}) {
		return
	}
	summary, err := h.service.MonthlySummary(r.Context(), businessID, r.URL.Query().Get("period"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	resp := summaryResponse{
		BusinessID: summary.BusinessID,
		Period:     summary.Period,
		Income:     summary.Income.StringFixed(2),
		Expense:    summary.Expense.StringFixed(2),
		Net:        summary.Net.StringFixed(2),
		Categories: make([]categoryTotalJSON, 0, len(summary.Categories)),
	}
	for _, ct := range summary.Categories {
		resp.Categories = append(resp.Categories, categoryTotalJSON{
			Category: ct.Category,
			Kind:     string(ct.Kind),
			Total:    ct.Total.StringFixed(2),
		})
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if !h.guard.Authorize(w, r, access.ResourceReport, access.ActionExport,
		&access.Ownership{BusinessID: businessID}) {
		return
	}
	period := r.URL.Query().Get("period")
	// Build the document before touching headers so a bad period still
	// answers with a problem document instead of an empty attachment.
	var buf bytes.Buffer
	if err := h.service.ExportCSV(r.Context(), &buf, businessID, period); err != nil {
		h.logger.Error("export csv", slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=summary-%s.csv", period))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) queueExport(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if !h.guard.Authorize(w, r, access.ResourceReport, access.ActionExport,
		&access.Ownership{BusinessID: businessID}) {
		return
	}
	var req exportRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	ac := access.FromContext(r.Context())
	job, err := h.service.QueueExport(r.Context(), CreateJobInput{
		BusinessID:  businessID,
		RequestedBy: ac.UserID,
		Period:      req.Period,
		Format:      Format(req.Format),
	})
	if err != nil {
		h.logger.Error("queue export", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, toJobResponse(job))
}

func (h *Handler) listExports(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if !h.guard.Authorize(w, r, access.ResourceReport, access.ActionRead,
		&access.Ownership{BusinessID: businessID}) {
		return
	}
	jobs, err := h.service.ListJobs(r.Context(), businessID)
	if err != nil {
		h.logger.Error("list exports", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]jobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, toJobResponse(&jobs[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) loadJobGuarded(w http.ResponseWriter, r *http.Request, act access.Action) *Job {
	id := chi.URLParam(r, "jobID")
	job, err := h.service.GetJob(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return nil
	}
	own := &access.Ownership{OwnerID: job.RequestedBy, BusinessID: job.BusinessID}
	if !h.guard.Authorize(w, r, access.ResourceReport, act, own) {
		return nil
	}
	return job
}

func (h *Handler) getExport(w http.ResponseWriter, r *http.Request) {
	job := h.loadJobGuarded(w, r, access.ActionRead)
	if job == nil {
		return
	}
	httpx.JSON(w, http.StatusOK, toJobResponse(job))
}

func (h *Handler) downloadExport(w http.ResponseWriter, r *http.Request) {
	job := h.loadJobGuarded(w, r, access.ActionExport)
	if job == nil {
		return
	}
	data, contentType, err := h.service.DownloadArtifact(r.Context(), job)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s-%s.%s", job.BusinessID, job.Period, job.Format))
	_, _ = w.Write(data)
}
