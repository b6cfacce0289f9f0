// AngelaMos | 2026
// service_test.go

package stats

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2026, 8, 30, 2, 15, 0, 0, loc)

	// 02:15 at UTC+5 is still Aug 29 in UTC
	got := Day(ts)
	require.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), got)

	// already-truncated days are fixed points
	require.Equal(t, got, Day(got))
}

func TestApprovalDelta(t *testing.T) {
	daily := ApprovalDelta(true)
	require.Equal(t, 1, daily.GoalsCompleted)
	require.Equal(t, rankPointsPerApproval, daily.RankPoints)
	require.Equal(t, 1, daily.DailyGoalsPoints)
	require.Equal(t, 0, daily.ClanContribApprovedCount)

	clan := ApprovalDelta(false)
	require.Equal(t, 1, clan.GoalsCompleted)
	require.Equal(t, rankPointsPerApproval, clan.RankPoints)
	require.Equal(t, 0, clan.DailyGoalsPoints)
	require.Equal(t, 1, clan.ClanContribApprovedCount)
}

func TestApplyAndReverseUseSameSnapshotKey(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	svc := NewService(NewRepository(db))

	userID := uuid.New()
	creditedAt := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)
	day := Day(creditedAt)

	mock.ExpectExec(`INSERT INTO user_stats`).
		WithArgs(sqlmock.AnyArg(), userID, day, 1, 10, 1, 0, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE user_stats SET`).
		WithArgs(userID, day, 1, 10, 1, 0, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, svc.ApplyApproval(ctx, db, userID, creditedAt, true))
	require.NoError(t, svc.ReverseApproval(ctx, db, userID, creditedAt, true))
	require.NoError(t, mock.ExpectationsWereMet())
}
