// AngelaMos | 2026
// repository.go

package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tdfclan/portal/internal/core"
)

// Delta is a set of counter increments applied to one user's daily stats
// row. Reversals use the same shape with the original magnitudes.
type Delta struct {
	GoalsCompleted           int
	RankPoints               int
	DailyGoalsPoints         int
	ClanContribApprovedCount int
	SubmissionsMade          int
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Day truncates a timestamp to its UTC calendar date, the snapshot key for
// all stats rows.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Apply upserts the user's row for the given day and adds the delta in a
// single statement, so concurrent approvals never lose increments.
func (r *Repository) Apply(
	ctx context.Context,
	q core.DBTX,
	userID uuid.UUID,
	day time.Time,
	d Delta,
) error {
	query := `
		INSERT INTO user_stats (
			id, user_id, snapshot_date, goals_completed, rank_points,
			daily_goals_points, clan_contrib_approved_count, submissions_made
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, snapshot_date) DO UPDATE SET
			goals_completed = user_stats.goals_completed + EXCLUDED.goals_completed,
			rank_points = user_stats.rank_points + EXCLUDED.rank_points,
			daily_goals_points = user_stats.daily_goals_points + EXCLUDED.daily_goals_points,
			clan_contrib_approved_count = user_stats.clan_contrib_approved_count + EXCLUDED.clan_contrib_approved_count,
			submissions_made = user_stats.submissions_made + EXCLUDED.submissions_made`

	_, err := q.ExecContext(ctx, query,
		uuid.New(),
		userID,
		Day(day),
		d.GoalsCompleted,
		d.RankPoints,
		d.DailyGoalsPoints,
		d.ClanContribApprovedCount,
		d.SubmissionsMade,
	)
	if err != nil {
		return fmt.Errorf("apply stats delta: %w", err)
	}

	return nil
}

// Reverse subtracts the delta from the user's row for the given day,
// flooring every counter at zero. If no row exists for that day there is
// nothing to reverse.
func (r *Repository) Reverse(
	ctx context.Context,
	q core.DBTX,
	userID uuid.UUID,
	day time.Time,
	d Delta,
) error {
	query := `
		UPDATE user_stats SET
			goals_completed = GREATEST(0, goals_completed - $3),
			rank_points = GREATEST(0, rank_points - $4),
			daily_goals_points = GREATEST(0, daily_goals_points - $5),
			clan_contrib_approved_count = GREATEST(0, clan_contrib_approved_count - $6),
			submissions_made = GREATEST(0, submissions_made - $7)
		WHERE user_id = $1 AND snapshot_date = $2`

	_, err := q.ExecContext(ctx, query,
		userID,
		Day(day),
		d.GoalsCompleted,
		d.RankPoints,
		d.DailyGoalsPoints,
		d.ClanContribApprovedCount,
		d.SubmissionsMade,
	)
	if err != nil {
		return fmt.Errorf("reverse stats delta: %w", err)
	}

	return nil
}

type RankingRow struct {
	UserID                   uuid.UUID `db:"user_id"  json:"user_id"`
	Nickname                 string    `db:"nickname" json:"nickname"`
	GoalsCompleted           int       `db:"goals_completed" json:"goals_completed"`
	RankPoints               int       `db:"rank_points" json:"rank_points"`
	DailyGoalsPoints         int       `db:"daily_goals_points" json:"daily_goals_points"`
	ClanContribApprovedCount int       `db:"clan_contrib_approved_count" json:"clan_contrib_approved_count"`
	SubmissionsMade          int       `db:"submissions_made" json:"submissions_made"`
}

// TopRanking sums all-time counters per user and returns the leaderboard,
// highest rank points first.
func (r *Repository) TopRanking(
	ctx context.Context,
	limit int,
) ([]RankingRow, error) {
	rows := []RankingRow{}
	query := `
		SELECT
			s.user_id,
			u.nickname,
			COALESCE(SUM(s.goals_completed), 0) AS goals_completed,
			COALESCE(SUM(s.rank_points), 0) AS rank_points,
			COALESCE(SUM(s.daily_goals_points), 0) AS daily_goals_points,
			COALESCE(SUM(s.clan_contrib_approved_count), 0) AS clan_contrib_approved_count,
			COALESCE(SUM(s.submissions_made), 0) AS submissions_made
		FROM user_stats s
		JOIN users u ON u.id = s.user_id
		WHERE u.status = 'ACTIVE'
		GROUP BY s.user_id, u.nickname
		ORDER BY rank_points DESC, goals_completed DESC, u.nickname ASC
		LIMIT $1`

	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("query ranking: %w", err)
	}

	return rows, nil
}

// UserTotals sums one user's all-time counters.
func (r *Repository) UserTotals(
	ctx context.Context,
	userID uuid.UUID,
) (*RankingRow, error) {
	var row RankingRow
	query := `
		SELECT
			u.id AS user_id,
			u.nickname,
			COALESCE(SUM(s.goals_completed), 0) AS goals_completed,
			COALESCE(SUM(s.rank_points), 0) AS rank_points,
			COALESCE(SUM(s.daily_goals_points), 0) AS daily_goals_points,
			COALESCE(SUM(s.clan_contrib_approved_count), 0) AS clan_contrib_approved_count,
			COALESCE(SUM(s.submissions_made), 0) AS submissions_made
		FROM users u
		LEFT JOIN user_stats s ON s.user_id = u.id
		WHERE u.id = $1
		GROUP BY u.id, u.nickname`

	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return nil, fmt.Errorf("query user totals: %w", err)
	}

	return &row, nil
}
