// AngelaMos | 2026
// entity.go

package recruitment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// ErrAlreadyReviewed is returned when accepting or rejecting an
// application that already left PENDING.
var ErrAlreadyReviewed = errors.New("application already reviewed")

type Application struct {
	ID               uuid.UUID  `db:"id"`
	Nickname         string     `db:"nickname"`
	DiscordTag       string     `db:"discord_tag"`
	Age              int        `db:"age"`
	Region           string     `db:"region"`
	GameExperience   string     `db:"game_experience"`
	HighestRank      string     `db:"highest_rank"`
	Preferences      string     `db:"preferences"`
	WeeklyHours      int        `db:"weekly_hours"`
	PriorClan        bool       `db:"prior_clan"`
	WhyLeftPriorClan *string    `db:"why_left_prior_clan"`
	WhyJoinUs        string     `db:"why_join_us"`
	PortfolioLinks   *string    `db:"portfolio_links"`
	Status           string     `db:"status"`
	ReviewedBy       *uuid.UUID `db:"reviewed_by"`
	ReviewedAt       *time.Time `db:"reviewed_at"`
	AcceptedUserID   *uuid.UUID `db:"accepted_user_id"`
	CreatedAt        time.Time  `db:"created_at"`
}
