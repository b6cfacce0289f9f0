// AngelaMos | 2026
// dto.go

package submission

import (
	"time"

	"github.com/google/uuid"

	"github.com/tdfclan/portal/internal/upload"
)

type CreateSubmissionRequest struct {
	GoalID      uuid.UUID `json:"goal_id"      validate:"required"`
	Amount      *int64    `json:"amount"       validate:"omitempty,min=1"`
	Note        *string   `json:"note"         validate:"omitempty,max=1000"`
	EvidenceURL *string   `json:"evidence_url" validate:"omitempty,url,max=500"`
}

type AdminCreateSubmissionRequest struct {
	GoalID      uuid.UUID `json:"goal_id"      validate:"required"`
	UserID      uuid.UUID `json:"user_id"      validate:"required"`
	Amount      *int64    `json:"amount"       validate:"omitempty,min=1"`
	Note        *string   `json:"note"         validate:"omitempty,max=1000"`
	EvidenceURL *string   `json:"evidence_url" validate:"omitempty,url,max=500"`
	Status      string    `json:"status"       validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

type RejectRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

type ListFilter struct {
	Status   string
	GoalID   *uuid.UUID
	UserID   *uuid.UUID
	Page     int
	PageSize int
}

type SubmissionResponse struct {
	ID              uuid.UUID       `json:"id"`
	GoalID          uuid.UUID       `json:"goal_id"`
	SubmittedBy     uuid.UUID       `json:"submitted_by"`
	Amount          *int64          `json:"amount,omitempty"`
	Note            *string         `json:"note,omitempty"`
	EvidenceURL     *string         `json:"evidence_url,omitempty"`
	Status          string          `json:"status"`
	ReviewedBy      *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time      `json:"reviewed_at,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Uploads         []upload.Upload `json:"uploads,omitempty"`
}

type DetailResponse struct {
	SubmissionResponse
	GoalTitle         string `json:"goal_title"`
	GoalScope         string `json:"goal_scope"`
	GoalIsDaily       bool   `json:"goal_is_daily"`
	SubmitterNickname string `json:"submitter_nickname"`
}

func ToResponse(s *Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:              s.ID,
		GoalID:          s.GoalID,
		SubmittedBy:     s.SubmittedBy,
		Amount:          s.Amount,
		Note:            s.Note,
		EvidenceURL:     s.EvidenceURL,
		Status:          s.Status,
		ReviewedBy:      s.ReviewedBy,
		ReviewedAt:      s.ReviewedAt,
		RejectionReason: s.RejectionReason,
		CreatedAt:       s.CreatedAt,
	}
}

func ToDetailResponse(d *Detail) DetailResponse {
	return DetailResponse{
		SubmissionResponse: ToResponse(&d.Submission),
		GoalTitle:          d.GoalTitle,
		GoalScope:          d.GoalScope,
		GoalIsDaily:        d.GoalIsDaily,
		SubmitterNickname:  d.SubmitterNickname,
	}
}

func ToDetailResponseList(details []Detail) []DetailResponse {
	out := make([]DetailResponse, len(details))
	for i := range details {
		out[i] = ToDetailResponse(&details[i])
	}
	return out
}
