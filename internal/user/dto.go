// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Nickname   string  `json:"nickname"   validate:"required,min=2,max=32"`
	DiscordTag string  `json:"discord_tag" validate:"max=64"`
	Email      *string `json:"email"      validate:"omitempty,email"`
	Role       string  `json:"role"       validate:"required,oneof=LEADER ELITE ADMIN MEMBER"`
}

type UpdateProfileRequest struct {
	DiscordTag *string `json:"discord_tag" validate:"omitempty,max=64"`
	Email      *string `json:"email"       validate:"omitempty,email"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=LEADER ELITE ADMIN MEMBER"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE BANNED"`
}

type ListUsersFilter struct {
	Role     string
	Status   string
	Search   string
	Page     int
	PageSize int
}

type UserResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Nickname           string     `json:"nickname"`
	DiscordTag         string     `json:"discord_tag"`
	Email              *string    `json:"email,omitempty"`
	Role               string     `json:"role"`
	Status             string     `json:"status"`
	MustChangePassword bool       `json:"must_change_password"`
	JoinedAt           *time.Time `json:"joined_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// CreatedUserResponse carries the temporary password exactly once, in the
// response to the admin who created the account.
type CreatedUserResponse struct {
	UserResponse
	TempPassword string `json:"temp_password"`
}

func ToResponse(u *User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Nickname:           u.Nickname,
		DiscordTag:         u.DiscordTag,
		Email:              u.Email,
		Role:               u.Role,
		Status:             u.Status,
		MustChangePassword: u.MustChangePassword,
		JoinedAt:           u.JoinedAt,
		CreatedAt:          u.CreatedAt,
	}
}

func ToResponseList(users []User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToResponse(&users[i])
	}
	return out
}
