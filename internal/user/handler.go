// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
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

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.Me)
	r.Patch("/me", h.UpdateMe)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireStaff)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/export", h.ExportCSV)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}/status", h.ChangeStatus)
		r.Post("/{id}/reset-password", h.ResetPassword)
		r.Delete("/{id}", h.Deactivate)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLeader)
		r.Patch("/{id}/role", h.ChangeRole)
	})

	return r
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	filter := ListUsersFilter{
		Role:     q.Get("role"),
		Status:   q.Get("status"),
		Search:   q.Get("search"),
		Page:     page,
		PageSize: pageSize,
	}

	if filter.Role != "" && !ValidRole(filter.Role) {
		core.BadRequest(w, "invalid role filter")
		return
	}
	if filter.Status != "" && !ValidStatus(filter.Status) {
		core.BadRequest(w, "invalid status filter")
		return
	}

	users, total, err := h.service.List(r.Context(), filter)
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

	core.Paginated(w, ToResponseList(users), filter.Page, filter.PageSize, total)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
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

	created, tempPassword, err := h.service.AdminCreate(r.Context(), actorID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateKey):
			core.Conflict(w, "nickname or email already in use")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "invalid user details")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, CreatedUserResponse{
		UserResponse: ToResponse(created),
		TempPassword: tempPassword,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid user id")
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToResponse(u))
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	u, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToResponse(u))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateKey):
			core.Conflict(w, "email already in use")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "user")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToResponse(u))
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid user id")
		return
	}

	var req ChangeRoleRequest
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

	if err := h.service.ChangeRole(r.Context(), actorID, targetID, req.Role); err != nil {
		h.writeChangeError(w, err)
		return
	}

	core.OK(w, map[string]string{"role": req.Role})
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid user id")
		return
	}

	var req ChangeStatusRequest
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

	if err := h.service.ChangeStatus(r.Context(), actorID, targetID, req.Status); err != nil {
		h.writeChangeError(w, err)
		return
	}

	core.OK(w, map[string]string{"status": req.Status})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid user id")
		return
	}

	actorID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	tempPassword, err := h.service.ResetPassword(r.Context(), actorID, targetID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]string{"temp_password": tempPassword})
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid user id")
		return
	}

	actorID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	if err := h.service.Deactivate(r.Context(), actorID, targetID); err != nil {
		h.writeChangeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="members.csv"`)

	if err := h.service.ExportCSV(r.Context(), w); err != nil {
		// headers may already be written; log and drop
		core.SetSpanError(r.Context(), err)
	}
}

func (h *Handler) writeChangeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "user")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid value")
	case core.IsAppError(err):
		core.JSONError(w, err)
	default:
		core.InternalServerError(w, err)
	}
}
