// AngelaMos | 2026
// handler.go

package submission

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
	maxBody  int64
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		maxBody:  service.store.MaxBytes()*maxEvidenceFiles + 1<<20,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/mine", h.Mine)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireStaff)
		r.Get("/", h.List)
		r.Post("/admin", h.AdminCreate)
		r.Post("/{id}/approve", h.Approve)
		r.Post("/{id}/reject", h.Reject)
	})

	// deletion reverses granted credits, so it stays with the top roles
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole("LEADER", "ADMIN"))
		r.Delete("/{id}", h.Delete)
	})

	return r
}

const maxEvidenceFiles = 5

// Create accepts multipart form data: a "payload" JSON part plus up to
// five "evidence" file parts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := r.ParseMultipartForm(h.maxBody); err != nil {
		core.BadRequest(w, "invalid multipart body")
		return
	}

	var req CreateSubmissionRequest
	if err := json.Unmarshal(
		[]byte(r.FormValue("payload")),
		&req,
	); err != nil {
		core.BadRequest(w, "invalid payload field")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	files := r.MultipartForm.File["evidence"]
	if len(files) > maxEvidenceFiles {
		core.BadRequest(w, "at most 5 evidence files")
		return
	}

	sub, err := h.service.Create(r.Context(), userID, req, files)
	if err != nil {
		h.writeSubmissionError(w, err)
		return
	}

	core.Created(w, ToResponse(sub))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := ListFilter{Status: q.Get("status")}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	if raw := q.Get("goal_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			core.BadRequest(w, "invalid goal_id filter")
			return
		}
		filter.GoalID = &id
	}
	if raw := q.Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			core.BadRequest(w, "invalid user_id filter")
			return
		}
		filter.UserID = &id
	}

	details, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 25
	}

	core.Paginated(w, ToDetailResponseList(details), filter.Page, filter.PageSize, total)
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	details, total, err := h.service.Mine(r.Context(), userID, page, pageSize)
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

	core.Paginated(w, ToDetailResponseList(details), page, pageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid submission id")
		return
	}

	d, files, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "submission")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	// members may only view their own submissions
	callerID := middleware.GetUserID(r.Context())
	if d.SubmittedBy.String() != callerID && !middleware.IsStaff(r.Context()) {
		core.Forbidden(w, "not allowed to view this submission")
		return
	}

	resp := ToDetailResponse(d)
	resp.Uploads = files
	core.OK(w, resp)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid submission id")
		return
	}

	reviewerID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	if err := h.service.Approve(r.Context(), reviewerID, id); err != nil {
		h.writeSubmissionError(w, err)
		return
	}

	core.OK(w, map[string]string{"status": StatusApproved})
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid submission id")
		return
	}

	// the body is optional; rejecting without a reason is fine
	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	reviewerID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	if err := h.service.Reject(r.Context(), reviewerID, id, req.Reason); err != nil {
		h.writeSubmissionError(w, err)
		return
	}

	core.OK(w, map[string]string{"status": StatusRejected})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid submission id")
		return
	}

	actorID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	if err := h.service.Delete(r.Context(), actorID, id); err != nil {
		h.writeSubmissionError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req AdminCreateSubmissionRequest
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

	sub, err := h.service.AdminCreate(r.Context(), actorID, req)
	if err != nil {
		h.writeSubmissionError(w, err)
		return
	}

	core.Created(w, ToResponse(sub))
}

func (h *Handler) writeSubmissionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "submission")
	case errors.Is(err, ErrAlreadyReviewed):
		core.Conflict(w, "submission already reviewed")
	case errors.Is(err, ErrEvidenceRequired):
		core.BadRequest(w, "evidence required before approval")
	case errors.Is(err, ErrAlreadyCompletedToday):
		core.Conflict(w, "daily goal already completed today")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid submission details")
	case core.IsAppError(err):
		core.JSONError(w, err)
	default:
		core.InternalServerError(w, err)
	}
}
