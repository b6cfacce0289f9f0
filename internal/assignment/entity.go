// AngelaMos | 2026
// entity.go

package assignment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	StatusOpen      = "OPEN"
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
)

// ErrNotSubmitted is returned when reviewing an assignment submission
// that is not in SUBMITTED state.
var ErrNotSubmitted = errors.New("assignment submission not in submitted state")

type Assignment struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	CreatedBy   uuid.UUID `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
}

type AssignmentSubmission struct {
	ID           uuid.UUID  `db:"id"`
	AssignmentID uuid.UUID  `db:"assignment_id"`
	UserID       uuid.UUID  `db:"user_id"`
	Status       string     `db:"status"`
	Explanation  *string    `db:"explanation"`
	EvidenceURL  *string    `db:"evidence_url"`
	SubmittedAt  *time.Time `db:"submitted_at"`
	ReviewedBy   *uuid.UUID `db:"reviewed_by"`
	ReviewedAt   *time.Time `db:"reviewed_at"`
	CreatedAt    time.Time  `db:"created_at"`
}

// StatusCounts summarizes one assignment's fan-out progress.
type StatusCounts struct {
	Open      int `db:"open"      json:"open"`
	Submitted int `db:"submitted" json:"submitted"`
	Approved  int `db:"approved"  json:"approved"`
	Rejected  int `db:"rejected"  json:"rejected"`
}
