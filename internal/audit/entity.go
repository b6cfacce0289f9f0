// AngelaMos | 2026
// entity.go

package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	ID        uuid.UUID       `db:"id"        json:"id"`
	ActorID   uuid.UUID       `db:"actor_id"  json:"actor_id"`
	Action    string          `db:"action"    json:"action"`
	Entity    string          `db:"entity"    json:"entity"`
	EntityID  *string         `db:"entity_id" json:"entity_id,omitempty"`
	Metadata  json.RawMessage `db:"metadata"  json:"metadata,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
