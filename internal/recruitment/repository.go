// AngelaMos | 2026
// repository.go

package recruitment

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

const applicationColumns = `id, nickname, discord_tag, age, region,
	game_experience, highest_rank, preferences, weekly_hours, prior_clan,
	why_left_prior_clan, why_join_us, portfolio_links, status, reviewed_by,
	reviewed_at, accepted_user_id, created_at`

func (r *Repository) Create(ctx context.Context, a *Application) error {
	query := `
		INSERT INTO recruitment_applications (
			id, nickname, discord_tag, age, region, game_experience,
			highest_rank, preferences, weekly_hours, prior_clan,
			why_left_prior_clan, why_join_us, portfolio_links
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Nickname,
		a.DiscordTag,
		a.Age,
		a.Region,
		a.GameExperience,
		a.HighestRank,
		a.Preferences,
		a.WeeklyHours,
		a.PriorClan,
		a.WhyLeftPriorClan,
		a.WhyJoinUs,
		a.PortfolioLinks,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(
	ctx context.Context,
	q core.DBTX,
	id uuid.UUID,
) (*Application, error) {
	var a Application
	query := fmt.Sprintf(
		`SELECT %s FROM recruitment_applications WHERE id = $1`,
		applicationColumns,
	)

	if err := q.GetContext(ctx, &a, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}

	return &a, nil
}

func (r *Repository) List(
	ctx context.Context,
	status string,
	page, pageSize int,
) ([]Application, int, error) {
	where := "1=1"
	args := []any{}
	argN := 1

	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", argN)
		args = append(args, status)
		argN++
	}

	var total int
	countQuery := fmt.Sprintf(
		`SELECT COUNT(*) FROM recruitment_applications WHERE %s`,
		where,
	)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM recruitment_applications WHERE %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`,
		applicationColumns,
		where,
		argN,
		argN+1,
	)
	args = append(args, pageSize, (page-1)*pageSize)

	apps := []Application{}
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	return apps, total, nil
}

// MarkAccepted is the one-shot PENDING -> ACCEPTED transition, recording
// who reviewed it and which user account came out of it.
func (r *Repository) MarkAccepted(
	ctx context.Context,
	q core.DBTX,
	id, reviewerID, acceptedUserID uuid.UUID,
) error {
	query := `
		UPDATE recruitment_applications
		SET status = 'ACCEPTED', reviewed_by = $2, reviewed_at = NOW(),
		    accepted_user_id = $3
		WHERE id = $1 AND status = 'PENDING'`

	res, err := q.ExecContext(ctx, query, id, reviewerID, acceptedUserID)
	if err != nil {
		return fmt.Errorf("mark application accepted: %w", err)
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

func (r *Repository) MarkRejected(
	ctx context.Context,
	id, reviewerID uuid.UUID,
) error {
	query := `
		UPDATE recruitment_applications
		SET status = 'REJECTED', reviewed_by = $2, reviewed_at = NOW()
		WHERE id = $1 AND status = 'PENDING'`

	res, err := r.db.ExecContext(ctx, query, id, reviewerID)
	if err != nil {
		return fmt.Errorf("mark application rejected: %w", err)
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
