// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
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

func (r *Repository) CreateReset(
	ctx context.Context,
	reset *PasswordReset,
) error {
	query := `
		INSERT INTO password_resets (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		reset.ID,
		reset.UserID,
		reset.TokenHash,
		reset.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert password reset: %w", err)
	}

	return nil
}

func (r *Repository) GetResetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*PasswordReset, error) {
	var reset PasswordReset
	query := `
		SELECT id, user_id, token_hash, expires_at, used, created_at
		FROM password_resets
		WHERE token_hash = $1
		ORDER BY created_at DESC
		LIMIT 1`

	if err := r.db.GetContext(ctx, &reset, query, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get password reset: %w", err)
	}

	return &reset, nil
}

// MarkResetUsed consumes a reset token. The WHERE guard makes the
// operation single-use under concurrent attempts.
func (r *Repository) MarkResetUsed(
	ctx context.Context,
	q core.DBTX,
	id uuid.UUID,
) error {
	query := `UPDATE password_resets SET used = TRUE WHERE id = $1 AND used = FALSE`

	res, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark password reset used: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrTokenRevoked
	}

	return nil
}

func (r *Repository) InvalidateUserResets(
	ctx context.Context,
	q core.DBTX,
	userID uuid.UUID,
) error {
	query := `UPDATE password_resets SET used = TRUE WHERE user_id = $1 AND used = FALSE`

	if _, err := q.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("invalidate password resets: %w", err)
	}

	return nil
}
