package tasks

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerdesk/ledgerdesk/internal/access"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

// Handler manages task endpoints, mounted per business.
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

// MountRoutes registers task routes under a business.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.openTask)
	r.Get("/", h.listTasks)
	r.Route("/{taskID}", func(r chi.Router) {
		r.Get("/", h.getTask)
		r.Put("/", h.updateTask)
		r.Delete("/", h.deleteTask)
		r.Post("/approve", h.approveTask)
	})
}

type taskRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Notes      string `json:"notes" validate:"max=2000"`
	AssigneeID string `json:"assignee_id" validate:"omitempty,uuid4|alphanum"`
	Status     string `json:"status" validate:"omitempty,oneof=open in_progress done approved"`
	DueDate    string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type taskResponse struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	AssigneeID string `json:"assignee_id,omitempty"`
	Title      string `json:"title"`
	Notes      string `json:"notes,omitempty"`
	Status     string `json:"status"`
	DueDate    string `json:"due_date,omitempty"`
}

func toResponse(task *Task) taskResponse {
	resp := taskResponse{
		ID:         task.ID,
		BusinessID: task.BusinessID,
		AssigneeID: task.AssigneeID,
		Title:      task.Title,
		Notes:      task.Notes,
		Status:     string(task.Status),
	}
	if !task.DueDate.IsZero() {
		resp.DueDate = task.DueDate.Format("2006-01-02")
	}
	return resp
}

func (h *Handler) decodeTask(w http.ResponseWriter, r *http.Request) (*taskRequest, time.Time, bool) {
	var req taskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return nil, time.Time{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return nil, time.Time{}, false
	}
	var due time.Time
	if req.DueDate != "" {
		due, _ = time.Parse("2006-01-02", req.DueDate)
	}
	return &req, due, true
}

func (h *Handler) openTask(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if !h.guard.Authorize(w, r, access.ResourceTask, access.ActionCreate,
		&access.Ownership{BusinessID: businessID}) {
		return
	}
	req, due, ok := h.decodeTask(w, r)
	if !ok {
		return
	}
	ac := access.FromContext(r.Context())
	task, err := h.service.OpenTask(r.Context(), CreateTaskInput{
		BusinessID: businessID,
		CreatedBy:  ac.UserID,
		AssigneeID: req.AssigneeID,
		Title:      req.Title,
		Notes:      req.Notes,
		DueDate:    due,
	})
	if err != nil {
		h.logger.Error("open task", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(task))
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if !h.guard.Authorize(w, r, access.ResourceTask, access.ActionRead,
		&access.Ownership{BusinessID: businessID}) {
		return
	}
	tasks, err := h.service.ListTasks(r.Context(), businessID, Status(r.URL.Query().Get("status")))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toResponse(&tasks[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) loadGuarded(w http.ResponseWriter, r *http.Request, act access.Action) *Task {
	id := chi.URLParam(r, "taskID")
	task, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return nil
	}
	own := &access.Ownership{OwnerID: task.CreatedBy, BusinessID: task.BusinessID}
	if !h.guard.Authorize(w, r, access.ResourceTask, act, own) {
		return nil
	}
	return task
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	task := h.loadGuarded(w, r, access.ActionRead)
	if task == nil {
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(task))
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	task := h.loadGuarded(w, r, access.ActionUpdate)
	if task == nil {
		return
	}
	req, due, ok := h.decodeTask(w, r)
	if !ok {
		return
	}
	status := task.Status
	if req.Status != "" {
		status = Status(req.Status)
	}
	updated, err := h.service.UpdateTask(r.Context(), task.ID, UpdateTaskInput{
		AssigneeID: req.AssigneeID,
		Title:      req.Title,
		Notes:      req.Notes,
		Status:     status,
		DueDate:    due,
	})
	if err != nil {
		h.logger.Error("update task", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) approveTask(w http.ResponseWriter, r *http.Request) {
	task := h.loadGuarded(w, r, access.ActionApprove)
	if task == nil {
		return
	}
	approved, err := h.service.Approve(r.Context(), task.ID)
	if err != nil {
		h.logger.Error("approve task", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(approved))
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	task := h.loadGuarded(w, r, access.ActionDelete)
	if task == nil {
		return
	}
	if err := h.service.DeleteTask(r.Context(), task.ID); err != nil {
		h.logger.Error("delete task", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
