// AngelaMos | 2026
// handler.go

package goal

import (
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

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/progress", h.Progress)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireStaff)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Archive)
	})

	return r
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	status := r.URL.Query().Get("status")

	if scope != "" && !ValidScope(scope) {
		core.BadRequest(w, "invalid scope filter")
		return
	}

	goals, err := h.service.List(r.Context(), scope, status)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToResponseList(goals))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid goal id")
		return
	}

	g, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "goal")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToResponse(g))
}

func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid goal id")
		return
	}

	progress, err := h.service.Progress(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "goal")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, progress)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
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

	g, err := h.service.Create(r.Context(), actorID, req)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid goal details")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToResponse(g))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid goal id")
		return
	}

	var req UpdateGoalRequest
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

	g, err := h.service.Update(r.Context(), actorID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "goal")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "invalid goal details")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToResponse(g))
}

func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid goal id")
		return
	}

	actorID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	if err := h.service.Archive(r.Context(), actorID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "goal")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
