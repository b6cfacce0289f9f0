// AngelaMos | 2026
// dto.go

package recruitment

import (
	"time"

	"github.com/google/uuid"
)

type SubmitApplicationRequest struct {
	Nickname         string  `json:"nickname"            validate:"required,min=2,max=32"`
	DiscordTag       string  `json:"discord_tag"         validate:"required,min=2,max=64"`
	Age              int     `json:"age"                 validate:"required,min=13,max=99"`
	Region           string  `json:"region"              validate:"required,max=64"`
	GameExperience   string  `json:"game_experience"     validate:"required,max=2000"`
	HighestRank      string  `json:"highest_rank"        validate:"required,max=64"`
	Preferences      string  `json:"preferences"         validate:"required,max=1000"`
	WeeklyHours      int     `json:"weekly_hours"        validate:"required,min=1,max=112"`
	PriorClan        bool    `json:"prior_clan"`
	WhyLeftPriorClan *string `json:"why_left_prior_clan" validate:"omitempty,max=1000"`
	WhyJoinUs        string  `json:"why_join_us"         validate:"required,max=2000"`
	PortfolioLinks   *string `json:"portfolio_links"     validate:"omitempty,max=1000"`

	ChallengeToken  string `json:"challenge_token"  validate:"required"`
	ChallengeAnswer string `json:"challenge_answer" validate:"required,max=16"`
}

type ApplicationResponse struct {
	ID               uuid.UUID  `json:"id"`
	Nickname         string     `json:"nickname"`
	DiscordTag       string     `json:"discord_tag"`
	Age              int        `json:"age"`
	Region           string     `json:"region"`
	GameExperience   string     `json:"game_experience"`
	HighestRank      string     `json:"highest_rank"`
	Preferences      string     `json:"preferences"`
	WeeklyHours      int        `json:"weekly_hours"`
	PriorClan        bool       `json:"prior_clan"`
	WhyLeftPriorClan *string    `json:"why_left_prior_clan,omitempty"`
	WhyJoinUs        string     `json:"why_join_us"`
	PortfolioLinks   *string    `json:"portfolio_links,omitempty"`
	Status           string     `json:"status"`
	ReviewedBy       *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	AcceptedUserID   *uuid.UUID `json:"accepted_user_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type RejectApplicationRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=1000"`
}

// AcceptResponse carries the one-time credentials for the new member.
type AcceptResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Nickname     string    `json:"nickname"`
	TempPassword string    `json:"temp_password"`
}

func ToResponse(a *Application) ApplicationResponse {
	return ApplicationResponse{
		ID:               a.ID,
		Nickname:         a.Nickname,
		DiscordTag:       a.DiscordTag,
		Age:              a.Age,
		Region:           a.Region,
		GameExperience:   a.GameExperience,
		HighestRank:      a.HighestRank,
		Preferences:      a.Preferences,
		WeeklyHours:      a.WeeklyHours,
		PriorClan:        a.PriorClan,
		WhyLeftPriorClan: a.WhyLeftPriorClan,
		WhyJoinUs:        a.WhyJoinUs,
		PortfolioLinks:   a.PortfolioLinks,
		Status:           a.Status,
		ReviewedBy:       a.ReviewedBy,
		ReviewedAt:       a.ReviewedAt,
		AcceptedUserID:   a.AcceptedUserID,
		CreatedAt:        a.CreatedAt,
	}
}

func ToResponseList(apps []Application) []ApplicationResponse {
	out := make([]ApplicationResponse, len(apps))
	for i := range apps {
		out[i] = ToResponse(&apps[i])
	}
	return out
}
