// AngelaMos | 2026
// entity.go

package goal

import (
	"time"

	"github.com/google/uuid"
)

const (
	ScopeUser = "USER"
	ScopeClan = "CLAN"
)

const (
	StatusActive   = "ACTIVE"
	StatusPaused   = "PAUSED"
	StatusArchived = "ARCHIVED"
)

const (
	VisibilityClan   = "CLAN"
	VisibilityPublic = "PUBLIC"
)

const (
	TypePlaytime = "PLAYTIME"
	TypeRanked   = "RANKED"
	TypeEvent    = "EVENT"
	TypeOther    = "OTHER"
)

type Goal struct {
	ID           uuid.UUID  `db:"id"`
	Title        string     `db:"title"`
	Description  string     `db:"description"`
	Type         string     `db:"type"`
	Scope        string     `db:"scope"`
	IsDaily      bool       `db:"is_daily"`
	TargetAmount *int64     `db:"target_amount"`
	Unit         *string    `db:"unit"`
	Status       string     `db:"status"`
	Visibility   string     `db:"visibility"`
	StartsAt     *time.Time `db:"starts_at"`
	EndsAt       *time.Time `db:"ends_at"`
	CreatedBy    uuid.UUID  `db:"created_by"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (g *Goal) ActiveAt(now time.Time) bool {
	if g.Status != StatusActive {
		return false
	}
	if g.StartsAt != nil && now.Before(*g.StartsAt) {
		return false
	}
	if g.EndsAt != nil && now.After(*g.EndsAt) {
		return false
	}
	return true
}

func ValidScope(scope string) bool {
	return scope == ScopeUser || scope == ScopeClan
}

func ValidType(t string) bool {
	switch t {
	case TypePlaytime, TypeRanked, TypeEvent, TypeOther:
		return true
	}
	return false
}
