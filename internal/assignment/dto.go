// AngelaMos | 2026
// dto.go

package assignment

import (
	"time"

	"github.com/google/uuid"
)

type CreateAssignmentRequest struct {
	Title       string      `json:"title"       validate:"required,min=3,max=120"`
	Description string      `json:"description" validate:"required,max=2000"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids" validate:"required,min=1,max=200,dive,required"`
}

type SubmitRequest struct {
	Explanation *string `json:"explanation"  validate:"omitempty,max=1000"`
	EvidenceURL *string `json:"evidence_url" validate:"required,url,max=500"`
}

type AssignmentResponse struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CreatedBy   uuid.UUID    `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	Counts      StatusCounts `json:"counts"`
}

type SubmissionResponse struct {
	ID           uuid.UUID  `json:"id"`
	AssignmentID uuid.UUID  `json:"assignment_id"`
	UserID       uuid.UUID  `json:"user_id"`
	Status       string     `json:"status"`
	Explanation  *string    `json:"explanation,omitempty"`
	EvidenceURL  *string    `json:"evidence_url,omitempty"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	ReviewedBy   *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// MyAssignment joins an assignment with the caller's own submission row.
type MyAssignment struct {
	AssignmentID uuid.UUID  `db:"assignment_id" json:"assignment_id"`
	Title        string     `db:"title"         json:"title"`
	Description  string     `db:"description"   json:"description"`
	SubmissionID uuid.UUID  `db:"submission_id" json:"submission_id"`
	Status       string     `db:"status"        json:"status"`
	SubmittedAt  *time.Time `db:"submitted_at"  json:"submitted_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
}

func ToSubmissionResponse(s *AssignmentSubmission) SubmissionResponse {
	return SubmissionResponse{
		ID:           s.ID,
		AssignmentID: s.AssignmentID,
		UserID:       s.UserID,
		Status:       s.Status,
		Explanation:  s.Explanation,
		EvidenceURL:  s.EvidenceURL,
		SubmittedAt:  s.SubmittedAt,
		ReviewedBy:   s.ReviewedBy,
		ReviewedAt:   s.ReviewedAt,
		CreatedAt:    s.CreatedAt,
	}
}

func ToSubmissionResponseList(subs []AssignmentSubmission) []SubmissionResponse {
	out := make([]SubmissionResponse, len(subs))
	for i := range subs {
		out[i] = ToSubmissionResponse(&subs[i])
	}
	return out
}
