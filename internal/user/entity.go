// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleLeader = "LEADER"
	RoleElite  = "ELITE"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusBanned   = "BANNED"
)

type User struct {
	ID                 uuid.UUID  `db:"id"`
	Nickname           string     `db:"nickname"`
	DiscordTag         string     `db:"discord_tag"`
	Email              *string    `db:"email"`
	PasswordHash       string     `db:"password_hash"`
	Role               string     `db:"role"`
	Status             string     `db:"status"`
	MustChangePassword bool       `db:"must_change_password"`
	JoinedAt           *time.Time `db:"joined_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

func (u *User) IsStaff() bool {
	switch u.Role {
	case RoleLeader, RoleElite, RoleAdmin:
		return true
	}
	return false
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func ValidRole(role string) bool {
	switch role {
	case RoleLeader, RoleElite, RoleAdmin, RoleMember:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusBanned:
		return true
	}
	return false
}
