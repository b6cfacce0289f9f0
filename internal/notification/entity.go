// AngelaMos | 2026
// entity.go

package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeSubmissionReviewed  = "SUBMISSION_REVIEWED"
	TypeAssignmentCreated   = "ASSIGNMENT_CREATED"
	TypeAssignmentReviewed  = "ASSIGNMENT_REVIEWED"
	TypeApplicationReceived = "APPLICATION_RECEIVED"
	TypeApplicationReviewed = "APPLICATION_REVIEWED"
	TypeSystem              = "SYSTEM"
)

type Notification struct {
	ID          uuid.UUID `db:"id"           json:"id"`
	RecipientID uuid.UUID `db:"recipient_id" json:"recipient_id"`
	Type        string    `db:"type"         json:"type"`
	Title       string    `db:"title"        json:"title"`
	Message     string    `db:"message"      json:"message"`
	Read        bool      `db:"read"         json:"read"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
}
