// AngelaMos | 2026
// entity.go

package upload

import (
	"time"

	"github.com/google/uuid"
)

const KindEvidence = "EVIDENCE"

type Upload struct {
	ID               uuid.UUID  `db:"id"                 json:"id"`
	Kind             string     `db:"kind"               json:"kind"`
	StoragePath      string     `db:"storage_path"       json:"-"`
	MimeType         string     `db:"mime_type"          json:"mime_type"`
	SizeBytes        int64      `db:"size_bytes"         json:"size_bytes"`
	GoalSubmissionID *uuid.UUID `db:"goal_submission_id" json:"goal_submission_id,omitempty"`
	UserID           *uuid.UUID `db:"user_id"            json:"user_id,omitempty"`
	CreatedAt        time.Time  `db:"created_at"         json:"created_at"`
}
