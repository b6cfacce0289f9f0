// AngelaMos | 2026
// dto.go

package auth

import "github.com/tdfclan/portal/internal/user"

type LoginRequest struct {
	Nickname string `json:"nickname" validate:"required,min=2,max=32"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

type AdminLoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

type LoginResponse struct {
	Token              string            `json:"token"`
	MustChangePassword bool              `json:"must_change_password"`
	User               user.UserResponse `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=10,max=128"`
}

type RequestResetRequest struct {
	Nickname string `json:"nickname" validate:"required,min=2,max=32"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=10,max=128"`
}
