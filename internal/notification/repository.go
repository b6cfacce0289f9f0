// AngelaMos | 2026
// repository.go

package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tdfclan/portal/internal/core"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, type, title, message)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.RecipientID,
		n.Type,
		n.Title,
		n.Message,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (r *Repository) InsertMany(
	ctx context.Context,
	notifications []Notification,
) error {
	if len(notifications) == 0 {
		return nil
	}

	query := `
		INSERT INTO notifications (id, recipient_id, type, title, message)
		VALUES (:id, :recipient_id, :type, :title, :message)`

	if _, err := r.db.NamedExecContext(ctx, query, notifications); err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}

	return nil
}

func (r *Repository) ListByRecipient(
	ctx context.Context,
	recipientID uuid.UUID,
	unreadOnly bool,
	limit int,
) ([]Notification, error) {
	notifications := []Notification{}

	query := `
		SELECT id, recipient_id, type, title, message, read, created_at
		FROM notifications
		WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	if err := r.db.SelectContext(ctx, &notifications, query, recipientID, limit); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead updates only rows owned by the caller; marking someone else's
// notification reads as not found.
func (r *Repository) MarkRead(
	ctx context.Context,
	id, recipientID uuid.UUID,
) error {
	query := `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND recipient_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	return nil
}

func (r *Repository) MarkAllRead(
	ctx context.Context,
	recipientID uuid.UUID,
) error {
	query := `
		UPDATE notifications SET read = TRUE
		WHERE recipient_id = $1 AND read = FALSE`

	if _, err := r.db.ExecContext(ctx, query, recipientID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}

	return nil
}

func (r *Repository) CountUnread(
	ctx context.Context,
	recipientID uuid.UUID,
) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE recipient_id = $1 AND read = FALSE`

	if err := r.db.GetContext(ctx, &count, query, recipientID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

func (r *Repository) ListStaffIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	query := `
		SELECT id FROM users
		WHERE role IN ('LEADER', 'ELITE', 'ADMIN') AND status = 'ACTIVE'`

	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("list staff ids: %w", err)
	}

	return ids, nil
}
