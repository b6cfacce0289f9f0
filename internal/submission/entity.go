// AngelaMos | 2026
// entity.go

package submission

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

var (
	// ErrAlreadyReviewed is returned when approving or rejecting a
	// submission that already left PENDING.
	ErrAlreadyReviewed = errors.New("submission already reviewed")

	// ErrEvidenceRequired is returned when approving a submission that has
	// neither an uploaded file nor an evidence URL.
	ErrEvidenceRequired = errors.New("evidence required for approval")

	// ErrAlreadyCompletedToday is returned when a member already has an
	// approved submission for the same daily goal on the same UTC day.
	ErrAlreadyCompletedToday = errors.New("daily goal already completed today")
)

type Submission struct {
	ID              uuid.UUID  `db:"id"`
	GoalID          uuid.UUID  `db:"goal_id"`
	SubmittedBy     uuid.UUID  `db:"submitted_by"`
	Amount          *int64     `db:"amount"`
	Note            *string    `db:"note"`
	EvidenceURL     *string    `db:"evidence_url"`
	Status          string     `db:"status"`
	ReviewedBy      *uuid.UUID `db:"reviewed_by"`
	ReviewedAt      *time.Time `db:"reviewed_at"`
	RejectionReason *string    `db:"rejection_reason"`
	CreatedAt       time.Time  `db:"created_at"`
}

// Detail is a submission joined with its goal and submitter for review
// listings.
type Detail struct {
	Submission
	GoalTitle         string `db:"goal_title"`
	GoalScope         string `db:"goal_scope"`
	GoalIsDaily       bool   `db:"goal_is_daily"`
	SubmitterNickname string `db:"submitter_nickname"`
}
