// AngelaMos | 2026
// handler.go

package stats

import (
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
	r.Get("/", h.Ranking)
	r.Get("/me", h.MyTotals)
	return r
}

// PublicRanking serves the leaderboard without authentication, for the
// public portal page.
func (h *Handler) PublicRanking(w http.ResponseWriter, r *http.Request) {
	h.Ranking(w, r)
}

func (h *Handler) Ranking(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Ranking(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, rows)
}

func (h *Handler) MyTotals(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	totals, err := h.service.UserTotals(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, totals)
}
