// AngelaMos | 2026
// handler.go

package upload

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tdfclan/portal/internal/core"
	"github.com/tdfclan/portal/internal/middleware"
)

type Handler struct {
	repo  *Repository
	store *Store
}

func NewHandler(repo *Repository, store *Store) *Handler {
	return &Handler{repo: repo, store: store}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.Serve)
	return r
}

// Serve streams a stored evidence file to the uploader or any staff member.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "invalid upload id")
		return
	}

	u, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "upload")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	callerID := middleware.GetUserID(r.Context())
	isOwner := u.UserID != nil && u.UserID.String() == callerID
	if !isOwner && !middleware.IsStaff(r.Context()) {
		core.Forbidden(w, "not allowed to view this upload")
		return
	}

	f, err := h.store.Open(u.StoragePath)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "upload")
			return
		}
		core.InternalServerError(w, err)
		return
	}
	defer f.Close() //nolint:errcheck // read-only handle

	w.Header().Set("Content-Type", u.MimeType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	//nolint:errcheck // streaming after headers; nothing useful to do on error
	_, _ = io.Copy(w, f)
}
