// AngelaMos | 2026
// repository.go

package upload

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

const uploadColumns = `id, kind, storage_path, mime_type, size_bytes,
	goal_submission_id, user_id, created_at`

func (r *Repository) Create(
	ctx context.Context,
	q core.DBTX,
	u *Upload,
) error {
	query := `
		INSERT INTO uploads (
			id, kind, storage_path, mime_type, size_bytes,
			goal_submission_id, user_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := q.ExecContext(ctx, query,
		u.ID,
		u.Kind,
		u.StoragePath,
		u.MimeType,
		u.SizeBytes,
		u.GoalSubmissionID,
		u.UserID,
	)
	if err != nil {
		return fmt.Errorf("insert upload: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*Upload, error) {
	var u Upload
	query := fmt.Sprintf(`SELECT %s FROM uploads WHERE id = $1`, uploadColumns)

	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get upload: %w", err)
	}

	return &u, nil
}

func (r *Repository) ListBySubmission(
	ctx context.Context,
	q core.DBTX,
	submissionID uuid.UUID,
) ([]Upload, error) {
	uploads := []Upload{}
	query := fmt.Sprintf(
		`SELECT %s FROM uploads WHERE goal_submission_id = $1
		 ORDER BY created_at ASC`,
		uploadColumns,
	)

	if err := q.SelectContext(ctx, &uploads, query, submissionID); err != nil {
		return nil, fmt.Errorf("list uploads for submission: %w", err)
	}

	return uploads, nil
}

func (r *Repository) CountBySubmission(
	ctx context.Context,
	q core.DBTX,
	submissionID uuid.UUID,
) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM uploads WHERE goal_submission_id = $1`

	if err := q.GetContext(ctx, &count, query, submissionID); err != nil {
		return 0, fmt.Errorf("count uploads for submission: %w", err)
	}

	return count, nil
}

func (r *Repository) DeleteBySubmission(
	ctx context.Context,
	q core.DBTX,
	submissionID uuid.UUID,
) error {
	query := `DELETE FROM uploads WHERE goal_submission_id = $1`

	if _, err := q.ExecContext(ctx, query, submissionID); err != nil {
		return fmt.Errorf("delete uploads for submission: %w", err)
	}

	return nil
}
