// AngelaMos | 2026
// handler.go

package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tdfclan/portal/internal/core"
	"github.com/tdfclan/portal/internal/middleware"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/mine", h.Mine)
	r.Post("/{id}/submit", h.Submit)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireStaff)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}/submissions", h.ListSubmissions)
		r.Post("/submissions/{sid}/approve", h.Approve)
		r.Post("/submissions/{sid}/reject", h.Reject)
		r.Delete("/submissions/{sid}", h.DeleteSubmission)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	actorID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	a, err := h.service.Create(r.Context(), actorID, req)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid assignment details")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, map[string]any{
		"id":          a.ID,
		"title":       a.Title,
		"description": a.Description,
		"created_at":  a.CreatedAt,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, assignments)
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid assignment id")
		return
	}

	subs, err := h.service.ListSubmissions(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "assignment")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSubmissionResponseList(subs))
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	mine, err := h.service.Mine(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, mine)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid assignment id")
		return
	}

	userID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	sub, err := h.service.Submit(r.Context(), assignmentID, userID, req)
	if err != nil {
		h.writeAssignmentError(w, err)
		return
	}

	core.OK(w, ToSubmissionResponse(sub))
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.reviewHandler(w, r, h.service.Approve)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.reviewHandler(w, r, h.service.Reject)
}

func (h *Handler) reviewHandler(
	w http.ResponseWriter,
	r *http.Request,
	review func(ctx context.Context, reviewerID, submissionID uuid.UUID) error,
) {
	submissionID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		core.BadRequest(w, "invalid submission id")
		return
	}

	reviewerID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	if err := review(r.Context(), reviewerID, submissionID); err != nil {
		h.writeAssignmentError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		core.BadRequest(w, "invalid submission id")
		return
	}

	actorID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	if err := h.service.DeleteSubmission(r.Context(), actorID, submissionID); err != nil {
		h.writeAssignmentError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid assignment id")
		return
	}

	actorID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	if err := h.service.Delete(r.Context(), actorID, id); err != nil {
		h.writeAssignmentError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeAssignmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "assignment")
	case errors.Is(err, ErrNotSubmitted):
		core.Conflict(w, "not in submitted state")
	case core.IsAppError(err):
		core.JSONError(w, err)
	default:
		core.InternalServerError(w, err)
	}
}
