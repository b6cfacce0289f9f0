// AngelaMos | 2026
// dto.go

package goal

import (
	"time"

	"github.com/google/uuid"
)

type CreateGoalRequest struct {
	Title        string     `json:"title"        validate:"required,min=3,max=120"`
	Description  string     `json:"description"  validate:"required,max=2000"`
	Type         string     `json:"type"         validate:"required,oneof=PLAYTIME RANKED EVENT OTHER"`
	Scope        string     `json:"scope"        validate:"required,oneof=USER CLAN"`
	TargetAmount *int64     `json:"target_amount" validate:"omitempty,min=1"`
	Unit         *string    `json:"unit"         validate:"omitempty,max=32"`
	Visibility   string     `json:"visibility"   validate:"omitempty,oneof=CLAN PUBLIC"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
}

type UpdateGoalRequest struct {
	Title        *string    `json:"title"        validate:"omitempty,min=3,max=120"`
	Description  *string    `json:"description"  validate:"omitempty,max=2000"`
	TargetAmount *int64     `json:"target_amount" validate:"omitempty,min=1"`
	Unit         *string    `json:"unit"         validate:"omitempty,max=32"`
	Visibility   *string    `json:"visibility"   validate:"omitempty,oneof=CLAN PUBLIC"`
	Status       *string    `json:"status"       validate:"omitempty,oneof=ACTIVE PAUSED ARCHIVED"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
}

type GoalResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Type         string     `json:"type"`
	Scope        string     `json:"scope"`
	IsDaily      bool       `json:"is_daily"`
	TargetAmount *int64     `json:"target_amount,omitempty"`
	Unit         *string    `json:"unit,omitempty"`
	Status       string     `json:"status"`
	Visibility   string     `json:"visibility"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	CreatedBy    uuid.UUID  `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
}

// GoalProgress carries clan-wide progress for CLAN goals: the sum of
// approved submission amounts against the target.
type GoalProgress struct {
	GoalResponse
	ApprovedAmount int64 `json:"approved_amount"`
}

func ToResponse(g *Goal) GoalResponse {
	return GoalResponse{
		ID:           g.ID,
		Title:        g.Title,
		Description:  g.Description,
		Type:         g.Type,
		Scope:        g.Scope,
		IsDaily:      g.IsDaily,
		TargetAmount: g.TargetAmount,
		Unit:         g.Unit,
		Status:       g.Status,
		Visibility:   g.Visibility,
		StartsAt:     g.StartsAt,
		EndsAt:       g.EndsAt,
		CreatedBy:    g.CreatedBy,
		CreatedAt:    g.CreatedAt,
	}
}

func ToResponseList(goals []Goal) []GoalResponse {
	out := make([]GoalResponse, len(goals))
	for i := range goals {
		out[i] = ToResponse(&goals[i])
	}
	return out
}
