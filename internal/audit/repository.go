// AngelaMos | 2026
// repository.go

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, entity, entity_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ActorID,
		e.Action,
		e.Entity,
		e.EntityID,
		e.Metadata,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

// ListAfter returns entries older than the cursor, newest first. The cursor
// is (created_at, id) of the last entry from the previous page; a zero
// cursor starts from the newest entry.
func (r *Repository) ListAfter(
	ctx context.Context,
	cursorTime time.Time,
	cursorID uuid.UUID,
	limit int,
) ([]Entry, error) {
	entries := []Entry{}

	if cursorTime.IsZero() {
		query := `
			SELECT id, actor_id, action, entity, entity_id, metadata, created_at
			FROM audit_logs
			ORDER BY created_at DESC, id DESC
			LIMIT $1`

		if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
			return nil, fmt.Errorf("list audit entries: %w", err)
		}
		return entries, nil
	}

	query := `
		SELECT id, actor_id, action, entity, entity_id, metadata, created_at
		FROM audit_logs
		WHERE (created_at, id) < ($1, $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	if err := r.db.SelectContext(ctx, &entries, query, cursorTime, cursorID, limit); err != nil {
		return nil, fmt.Errorf("list audit entries after cursor: %w", err)
	}

	return entries, nil
}

func marshalMetadata(metadata map[string]any) json.RawMessage {
	if len(metadata) == 0 {
		return nil
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil
	}
	return raw
}
