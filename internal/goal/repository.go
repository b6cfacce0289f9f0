// AngelaMos | 2026
// repository.go

package goal

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

const goalColumns = `id, title, description, type, scope, is_daily,
	target_amount, unit, status, visibility, starts_at, ends_at,
	created_by, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, g *Goal) error {
	query := `
		INSERT INTO goals (
			id, title, description, type, scope, is_daily, target_amount,
			unit, status, visibility, starts_at, ends_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		g.ID,
		g.Title,
		g.Description,
		g.Type,
		g.Scope,
		g.IsDaily,
		g.TargetAmount,
		g.Unit,
		g.Status,
		g.Visibility,
		g.StartsAt,
		g.EndsAt,
		g.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(
	ctx context.Context,
	q core.DBTX,
	id uuid.UUID,
) (*Goal, error) {
	var g Goal
	query := fmt.Sprintf(`SELECT %s FROM goals WHERE id = $1`, goalColumns)

	if err := q.GetContext(ctx, &g, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}

	return &g, nil
}

// GetByIDForUpdate locks the goal row for the duration of the enclosing
// transaction. Approvals for the same goal serialize on this lock, which
// is what makes the per-user daily-completion check race-free.
func (r *Repository) GetByIDForUpdate(
	ctx context.Context,
	q core.DBTX,
	id uuid.UUID,
) (*Goal, error) {
	var g Goal
	query := fmt.Sprintf(
		`SELECT %s FROM goals WHERE id = $1 FOR UPDATE`,
		goalColumns,
	)

	if err := q.GetContext(ctx, &g, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get goal for update: %w", err)
	}

	return &g, nil
}

func (r *Repository) List(
	ctx context.Context,
	scope, status string,
	publicOnly bool,
) ([]Goal, error) {
	goals := []Goal{}

	query := fmt.Sprintf(`SELECT %s FROM goals WHERE 1=1`, goalColumns)
	args := []any{}
	argN := 1

	if scope != "" {
		query += fmt.Sprintf(" AND scope = $%d", argN)
		args = append(args, scope)
		argN++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argN)
		args = append(args, status)
		argN++
	}
	if publicOnly {
		query += " AND visibility = 'PUBLIC'"
	}

	query += " ORDER BY created_at DESC"

	if err := r.db.SelectContext(ctx, &goals, query, args...); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	return goals, nil
}

func (r *Repository) Update(ctx context.Context, g *Goal) error {
	query := `
		UPDATE goals
		SET title = $2, description = $3, target_amount = $4, unit = $5,
		    visibility = $6, status = $7, starts_at = $8, ends_at = $9,
		    updated_at = NOW()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		g.ID,
		g.Title,
		g.Description,
		g.TargetAmount,
		g.Unit,
		g.Visibility,
		g.Status,
		g.StartsAt,
		g.EndsAt,
	)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
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

func (r *Repository) Archive(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE goals SET status = 'ARCHIVED', updated_at = NOW()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("archive goal: %w", err)
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

// ApprovedAmount sums approved submission amounts for a goal, used for
// clan goal progress.
func (r *Repository) ApprovedAmount(
	ctx context.Context,
	goalID uuid.UUID,
) (int64, error) {
	var total int64
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM goal_submissions
		WHERE goal_id = $1 AND status = 'APPROVED'`

	if err := r.db.GetContext(ctx, &total, query, goalID); err != nil {
		return 0, fmt.Errorf("sum approved amount: %w", err)
	}

	return total, nil
}
