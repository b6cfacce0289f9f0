// AngelaMos | 2026
// handler.go

package notification

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tdfclan/portal/internal/core"
	"github.com/tdfclan/portal/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/read-all", h.MarkAllRead)
	r.Post("/{id}/read", h.MarkRead)
	return r
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	recipientID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, unread, err := h.service.List(r.Context(), recipientID, unreadOnly)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]any{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	recipientID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid notification id")
		return
	}

	if err := h.service.MarkRead(r.Context(), id, recipientID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "notification")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	recipientID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	if err := h.service.MarkAllRead(r.Context(), recipientID); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
