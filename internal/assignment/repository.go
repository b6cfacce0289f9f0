// AngelaMos | 2026
// repository.go

package assignment

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

func (r *Repository) CreateAssignment(
	ctx context.Context,
	q core.DBTX,
	a *Assignment,
) error {
	query := `
		INSERT INTO assignments (id, title, description, created_by)
		VALUES ($1, $2, $3, $4)`

	_, err := q.ExecContext(ctx, query,
		a.ID,
		a.Title,
		a.Description,
		a.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}

	return nil
}

// FanOut creates one OPEN submission row per assignee.
func (r *Repository) FanOut(
	ctx context.Context,
	q core.DBTX,
	assignmentID uuid.UUID,
	assigneeIDs []uuid.UUID,
) error {
	rows := make([]AssignmentSubmission, 0, len(assigneeIDs))
	for _, userID := range assigneeIDs {
		rows = append(rows, AssignmentSubmission{
			ID:           uuid.New(),
			AssignmentID: assignmentID,
			UserID:       userID,
			Status:       StatusOpen,
		})
	}

	query := `
		INSERT INTO assignment_submissions (id, assignment_id, user_id, status)
		VALUES (:id, :assignment_id, :user_id, :status)`

	if _, err := sqlx.NamedExecContext(ctx, q, query, rows); err != nil {
		return fmt.Errorf("fan out assignment: %w", err)
	}

	return nil
}

func (r *Repository) GetAssignment(
	ctx context.Context,
	id uuid.UUID,
) (*Assignment, error) {
	var a Assignment
	query := `
		SELECT id, title, description, created_by, created_at
		FROM assignments WHERE id = $1`

	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}

	return &a, nil
}

func (r *Repository) ListAssignments(
	ctx context.Context,
) ([]Assignment, error) {
	assignments := []Assignment{}
	query := `
		SELECT id, title, description, created_by, created_at
		FROM assignments
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	return assignments, nil
}

func (r *Repository) Counts(
	ctx context.Context,
	assignmentID uuid.UUID,
) (*StatusCounts, error) {
	var counts StatusCounts
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'OPEN') AS open,
			COUNT(*) FILTER (WHERE status = 'SUBMITTED') AS submitted,
			COUNT(*) FILTER (WHERE status = 'APPROVED') AS approved,
			COUNT(*) FILTER (WHERE status = 'REJECTED') AS rejected
		FROM assignment_submissions
		WHERE assignment_id = $1`

	if err := r.db.GetContext(ctx, &counts, query, assignmentID); err != nil {
		return nil, fmt.Errorf("count assignment submissions: %w", err)
	}

	return &counts, nil
}

func (r *Repository) ListSubmissions(
	ctx context.Context,
	assignmentID uuid.UUID,
) ([]AssignmentSubmission, error) {
	subs := []AssignmentSubmission{}
	query := `
		SELECT id, assignment_id, user_id, status, explanation, evidence_url,
		       submitted_at, reviewed_by, reviewed_at, created_at
		FROM assignment_submissions
		WHERE assignment_id = $1
		ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &subs, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list assignment submissions: %w", err)
	}

	return subs, nil
}

func (r *Repository) ListMine(
	ctx context.Context,
	userID uuid.UUID,
) ([]MyAssignment, error) {
	mine := []MyAssignment{}
	query := `
		SELECT
			a.id AS assignment_id,
			a.title,
			a.description,
			s.id AS submission_id,
			s.status,
			s.submitted_at,
			a.created_at
		FROM assignment_submissions s
		JOIN assignments a ON a.id = s.assignment_id
		WHERE s.user_id = $1
		ORDER BY a.created_at DESC`

	if err := r.db.SelectContext(ctx, &mine, query, userID); err != nil {
		return nil, fmt.Errorf("list my assignments: %w", err)
	}

	return mine, nil
}

func (r *Repository) GetSubmissionForUser(
	ctx context.Context,
	assignmentID, userID uuid.UUID,
) (*AssignmentSubmission, error) {
	var s AssignmentSubmission
	query := `
		SELECT id, assignment_id, user_id, status, explanation, evidence_url,
		       submitted_at, reviewed_by, reviewed_at, created_at
		FROM assignment_submissions
		WHERE assignment_id = $1 AND user_id = $2`

	if err := r.db.GetContext(ctx, &s, query, assignmentID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get assignment submission: %w", err)
	}

	return &s, nil
}

func (r *Repository) GetSubmission(
	ctx context.Context,
	id uuid.UUID,
) (*AssignmentSubmission, error) {
	var s AssignmentSubmission
	query := `
		SELECT id, assignment_id, user_id, status, explanation, evidence_url,
		       submitted_at, reviewed_by, reviewed_at, created_at
		FROM assignment_submissions
		WHERE id = $1`

	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get assignment submission: %w", err)
	}

	return &s, nil
}

// MarkSubmitted moves the caller's OPEN row to SUBMITTED. The status guard
// keeps re-submission of an already reviewed row from clobbering it.
func (r *Repository) MarkSubmitted(
	ctx context.Context,
	id uuid.UUID,
	explanation, evidenceURL *string,
) error {
	query := `
		UPDATE assignment_submissions
		SET status = 'SUBMITTED', explanation = $2, evidence_url = $3,
		    submitted_at = NOW()
		WHERE id = $1 AND status IN ('OPEN', 'SUBMITTED')`

	res, err := r.db.ExecContext(ctx, query, id, explanation, evidenceURL)
	if err != nil {
		return fmt.Errorf("mark assignment submitted: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotSubmitted
	}

	return nil
}

// MarkReviewed moves a SUBMITTED row to APPROVED or REJECTED.
func (r *Repository) MarkReviewed(
	ctx context.Context,
	id, reviewerID uuid.UUID,
	status string,
) error {
	query := `
		UPDATE assignment_submissions
		SET status = $3, reviewed_by = $2, reviewed_at = NOW()
		WHERE id = $1 AND status = 'SUBMITTED'`

	res, err := r.db.ExecContext(ctx, query, id, reviewerID, status)
	if err != nil {
		return fmt.Errorf("mark assignment reviewed: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotSubmitted
	}

	return nil
}

func (r *Repository) DeleteSubmission(
	ctx context.Context,
	id uuid.UUID,
) error {
	query := `DELETE FROM assignment_submissions WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete assignment submission: %w", err)
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

// DeleteAssignment removes the assignment and all fan-out rows.
func (r *Repository) DeleteAssignment(
	ctx context.Context,
	q core.DBTX,
	id uuid.UUID,
) error {
	if _, err := q.ExecContext(
		ctx,
		`DELETE FROM assignment_submissions WHERE assignment_id = $1`,
		id,
	); err != nil {
		return fmt.Errorf("delete assignment submissions: %w", err)
	}

	res, err := q.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
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
