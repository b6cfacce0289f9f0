// AngelaMos | 2026
// service.go

package audit

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Log records an audit entry. Failures are logged and swallowed: the
// triggering operation must never fail because the audit write did.
func (s *Service) Log(
	ctx context.Context,
	actorID uuid.UUID,
	action, entity, entityID string,
	metadata map[string]any,
) {
	entry := &Entry{
		ID:       uuid.New(),
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		Metadata: marshalMetadata(metadata),
	}
	if entityID != "" {
		entry.EntityID = &entityID
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.Error("audit log write failed",
			"action", action,
			"entity", entity,
			"error", err,
		)
	}
}

type Page struct {
	Entries    []Entry `json:"entries"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

func (s *Service) List(
	ctx context.Context,
	cursor string,
	limit int,
) (*Page, error) {
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var cursorTime time.Time
	var cursorID uuid.UUID

	if cursor != "" {
		t, id, err := decodeCursor(cursor)
		if err != nil {
			return nil, err
		}
		cursorTime, cursorID = t, id
	}

	entries, err := s.repo.ListAfter(ctx, cursorTime, cursorID, limit)
	if err != nil {
		return nil, err
	}

	page := &Page{Entries: entries}
	if len(entries) == limit {
		last := entries[len(entries)-1]
		page.NextCursor = encodeCursor(last.CreatedAt, last.ID)
	}

	return page, nil
}

func encodeCursor(t time.Time, id uuid.UUID) string {
	raw := fmt.Sprintf("%d|%s", t.UnixNano(), id)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("decode cursor: %w", err)
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor")
	}

	var nanos int64
	if _, err := fmt.Sscanf(parts[0], "%d", &nanos); err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor time: %w", err)
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor id: %w", err)
	}

	return time.Unix(0, nanos), id, nil
}
