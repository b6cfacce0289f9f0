// AngelaMos | 2026
// repository.go

package submission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *Repository) DB() *sqlx.DB {
	return r.db
}

const submissionColumns = `id, goal_id, submitted_by, amount, note,
	evidence_url, status, reviewed_by, reviewed_at, rejection_reason,
	created_at`

func (r *Repository) Create(
	ctx context.Context,
	q core.DBTX,
	s *Submission,
) error {
	query := `
		INSERT INTO goal_submissions (
			id, goal_id, submitted_by, amount, note, evidence_url, status,
			reviewed_by, reviewed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	row := q.QueryRowxContext(ctx, query,
		s.ID,
		s.GoalID,
		s.SubmittedBy,
		s.Amount,
		s.Note,
		s.EvidenceURL,
		s.Status,
		s.ReviewedBy,
		s.ReviewedAt,
	)
	if err := row.Scan(&s.CreatedAt); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(
	ctx context.Context,
	q core.DBTX,
	id uuid.UUID,
) (*Submission, error) {
	var s Submission
	query := fmt.Sprintf(
		`SELECT %s FROM goal_submissions WHERE id = $1`,
		submissionColumns,
	)

	if err := q.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}

	return &s, nil
}

// HasApprovedSince reports whether the user already has an approved
// submission for the goal created at or after the given instant. Callers
// pass UTC midnight to enforce the one-per-day rule for daily goals.
func (r *Repository) HasApprovedSince(
	ctx context.Context,
	q core.DBTX,
	goalID, userID uuid.UUID,
	since time.Time,
) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM goal_submissions
			WHERE goal_id = $1
			  AND submitted_by = $2
			  AND status = 'APPROVED'
			  AND created_at >= $3
		)`

	if err := q.GetContext(ctx, &exists, query, goalID, userID, since); err != nil {
		return false, fmt.Errorf("check approved since: %w", err)
	}

	return exists, nil
}

// MarkReviewed moves a PENDING submission to its reviewed status. The
// status guard in the WHERE clause makes review a one-shot transition.
func (r *Repository) MarkReviewed(
	ctx context.Context,
	q core.DBTX,
	id, reviewerID uuid.UUID,
	status string,
	rejectionReason *string,
) error {
	query := `
		UPDATE goal_submissions
		SET status = $3, reviewed_by = $2, reviewed_at = NOW(),
		    rejection_reason = $4
		WHERE id = $1 AND status = 'PENDING'`

	res, err := q.ExecContext(ctx, query, id, reviewerID, status, rejectionReason)
	if err != nil {
		return fmt.Errorf("mark submission reviewed: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrAlreadyReviewed
	}

	return nil
}

func (r *Repository) Delete(
	ctx context.Context,
	q core.DBTX,
	id uuid.UUID,
) error {
	query := `DELETE FROM goal_submissions WHERE id = $1`

	res, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
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

const detailColumns = `
	s.id, s.goal_id, s.submitted_by, s.amount, s.note, s.evidence_url,
	s.status, s.reviewed_by, s.reviewed_at, s.rejection_reason, s.created_at,
	g.title AS goal_title, g.scope AS goal_scope, g.is_daily AS goal_is_daily,
	u.nickname AS submitter_nickname`

func (r *Repository) List(
	ctx context.Context,
	filter ListFilter,
) ([]Detail, int, error) {
	where := "1=1"
	args := []any{}
	argN := 1

	if filter.Status != "" {
		where += fmt.Sprintf(" AND s.status = $%d", argN)
		args = append(args, filter.Status)
		argN++
	}
	if filter.GoalID != nil {
		where += fmt.Sprintf(" AND s.goal_id = $%d", argN)
		args = append(args, *filter.GoalID)
		argN++
	}
	if filter.UserID != nil {
		where += fmt.Sprintf(" AND s.submitted_by = $%d", argN)
		args = append(args, *filter.UserID)
		argN++
	}

	var total int
	countQuery := fmt.Sprintf(
		`SELECT COUNT(*) FROM goal_submissions s WHERE %s`,
		where,
	)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM goal_submissions s
		JOIN goals g ON g.id = s.goal_id
		JOIN users u ON u.id = s.submitted_by
		WHERE %s
		ORDER BY s.created_at DESC
		LIMIT $%d OFFSET $%d`,
		detailColumns,
		where,
		argN,
		argN+1,
	)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	details := []Detail{}
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}

	return details, total, nil
}

func (r *Repository) GetDetail(
	ctx context.Context,
	id uuid.UUID,
) (*Detail, error) {
	var d Detail
	query := fmt.Sprintf(`
		SELECT %s
		FROM goal_submissions s
		JOIN goals g ON g.id = s.goal_id
		JOIN users u ON u.id = s.submitted_by
		WHERE s.id = $1`,
		detailColumns,
	)

	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get submission detail: %w", err)
	}

	return &d, nil
}
