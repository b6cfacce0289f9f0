// AngelaMos | 2026
// entity.go

package auth

import (
	"time"

	"github.com/google/uuid"
)

type PasswordReset struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
	CreatedAt time.Time `db:"created_at"`
}

func (p *PasswordReset) Usable(now time.Time) bool {
	return !p.Used && now.Before(p.ExpiresAt)
}
