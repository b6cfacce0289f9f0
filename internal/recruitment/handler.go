// AngelaMos | 2026
// handler.go

package recruitment

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

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

// PublicRoutes serve unauthenticated applicants.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/challenge", h.IssueChallenge)
	r.Post("/applications", h.Submit)
	return r
}

// StaffRoutes serve the review workflow.
func (h *Handler) StaffRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireStaff)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/accept", h.Accept)
	r.Post("/{id}/reject", h.Reject)
	return r
}

func (h *Handler) IssueChallenge(w http.ResponseWriter, r *http.Request) {
	challenge, err := h.service.IssueChallenge()
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, challenge)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	a, err := h.service.Submit(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrChallengeFailed):
			core.JSONError(w, core.NewAppError(
				"CHALLENGE_FAILED",
				"challenge verification failed",
				http.StatusUnprocessableEntity,
			))
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "invalid application details")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, map[string]any{
		"id":     a.ID,
		"status": a.Status,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	apps, total, err := h.service.List(r.Context(), q.Get("status"), page, pageSize)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}

	core.Paginated(w, ToResponseList(apps), page, pageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid application id")
		return
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "application")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToResponse(a))
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid application id")
		return
	}

	reviewerID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	resp, err := h.service.Accept(r.Context(), reviewerID, id)
	if err != nil {
		h.writeReviewError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid application id")
		return
	}

	reviewerID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	// the body is optional; rejecting without a reason is fine
	var req RejectApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.Reject(r.Context(), reviewerID, id, req.Reason); err != nil {
		h.writeReviewError(w, err)
		return
	}

	core.OK(w, map[string]string{"status": StatusRejected})
}

func (h *Handler) writeReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "application")
	case errors.Is(err, ErrAlreadyReviewed):
		core.Conflict(w, "application already reviewed")
	case errors.Is(err, core.ErrDuplicateKey):
		core.Conflict(w, "nickname already in use")
	default:
		core.InternalServerError(w, err)
	}
}
