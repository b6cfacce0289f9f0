// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
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

// PublicRoutes are mounted without the authenticator.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/admin/login", h.AdminLogin)
	r.Post("/request-reset", h.RequestReset)
	r.Post("/reset-password", h.ResetPassword)
	return r
}

// ProtectedRoutes require a valid access token.
func (h *Handler) ProtectedRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/change-password", h.ChangePassword)
	r.Post("/logout", h.Logout)
	return r
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.LoginUser(r.Context(), req)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.LoginAdmin(r.Context(), req)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		core.Unauthorized(w, "invalid session")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	token, err := h.service.ChangePassword(r.Context(), userID, req)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	core.OK(w, map[string]string{"token": token})
}

func (h *Handler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req RequestResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]string{
		"message": "if the account exists, staff have been notified",
	})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		h.writeAuthError(w, err)
		return
	}

	core.OK(w, map[string]string{"message": "password updated"})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	jti := ""
	if claims := middleware.GetClaims(r.Context()); claims != nil {
		jti = claims.JTI
	}

	if err := h.service.Logout(r.Context(), jti); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}
	core.InternalServerError(w, err)
}
