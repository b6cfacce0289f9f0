// AngelaMos | 2026
// service_test.go

package submission

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/tdfclan/portal/internal/audit"
	"github.com/tdfclan/portal/internal/core"
	"github.com/tdfclan/portal/internal/goal"
	"github.com/tdfclan/portal/internal/notification"
	"github.com/tdfclan/portal/internal/stats"
	"github.com/tdfclan/portal/internal/upload"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewService(
		&core.Database{DB: db},
		NewRepository(db),
		goal.NewRepository(db),
		upload.NewRepository(db),
		nil,
		stats.NewService(stats.NewRepository(db)),
		notification.NewService(notification.NewRepository(db), nil, logger),
		audit.NewService(audit.NewRepository(db), logger),
		logger,
	)

	return svc, mock
}

var submissionCols = []string{
	"id", "goal_id", "submitted_by", "amount", "note", "evidence_url",
	"status", "reviewed_by", "reviewed_at", "rejection_reason", "created_at",
}

var goalCols = []string{
	"id", "title", "description", "type", "scope", "is_daily",
	"target_amount", "unit", "status", "visibility", "starts_at", "ends_at",
	"created_by", "created_at", "updated_at",
}

func submissionRow(
	id, goalID, userID uuid.UUID,
	status string,
	evidenceURL *string,
	createdAt time.Time,
) *sqlmock.Rows {
	return sqlmock.NewRows(submissionCols).AddRow(
		id, goalID, userID, nil, nil, evidenceURL,
		status, nil, nil, nil, createdAt,
	)
}

func goalRow(id uuid.UUID, scope string, isDaily bool) *sqlmock.Rows {
	return sqlmock.NewRows(goalCols).AddRow(
		id, "Win ranked matches", "Win 5 ranked matches", goal.TypeRanked,
		scope, isDaily, nil, nil, goal.StatusActive, goal.VisibilityClan,
		nil, nil, uuid.New(), time.Now().UTC(), time.Now().UTC(),
	)
}

func TestApproveCreditsStats(t *testing.T) {
	svc, mock := newTestService(t)

	subID := uuid.New()
	goalID := uuid.New()
	submitterID := uuid.New()
	reviewerID := uuid.New()
	evidence := "https://example.com/proof.png"
	// submitted days ago; the credit must still land on today's snapshot
	createdAt := time.Now().UTC().AddDate(0, 0, -3)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM goal_submissions WHERE id = \$1`).
		WithArgs(subID).
		WillReturnRows(submissionRow(
			subID, goalID, submitterID, StatusPending, &evidence, createdAt,
		))
	mock.ExpectQuery(`SELECT (.+) FROM goals WHERE id = \$1 FOR UPDATE`).
		WithArgs(goalID).
		WillReturnRows(goalRow(goalID, goal.ScopeClan, false))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM uploads`).
		WithArgs(subID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE goal_submissions`).
		WithArgs(subID, reviewerID, StatusApproved, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_stats`).
		WithArgs(
			sqlmock.AnyArg(), submitterID, stats.Day(time.Now()),
			1, 10, 0, 1, 0,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Approve(context.Background(), reviewerID, subID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveRequiresEvidence(t *testing.T) {
	svc, mock := newTestService(t)

	subID := uuid.New()
	goalID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM goal_submissions WHERE id = \$1`).
		WithArgs(subID).
		WillReturnRows(submissionRow(
			subID, goalID, uuid.New(), StatusPending, nil, time.Now().UTC(),
		))
	mock.ExpectQuery(`SELECT (.+) FROM goals WHERE id = \$1 FOR UPDATE`).
		WithArgs(goalID).
		WillReturnRows(goalRow(goalID, goal.ScopeClan, false))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM uploads`).
		WithArgs(subID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	err := svc.Approve(context.Background(), uuid.New(), subID)
	require.ErrorIs(t, err, ErrEvidenceRequired)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveRejectsDoubleReview(t *testing.T) {
	svc, mock := newTestService(t)

	subID := uuid.New()
	goalID := uuid.New()
	evidence := "https://example.com/proof.png"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM goal_submissions WHERE id = \$1`).
		WithArgs(subID).
		WillReturnRows(submissionRow(
			subID, goalID, uuid.New(), StatusApproved, &evidence,
			time.Now().UTC(),
		))
	mock.ExpectQuery(`SELECT (.+) FROM goals WHERE id = \$1 FOR UPDATE`).
		WithArgs(goalID).
		WillReturnRows(goalRow(goalID, goal.ScopeClan, false))
	mock.ExpectRollback()

	err := svc.Approve(context.Background(), uuid.New(), subID)
	require.ErrorIs(t, err, ErrAlreadyReviewed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveDailyGoalOncePerDay(t *testing.T) {
	svc, mock := newTestService(t)

	subID := uuid.New()
	goalID := uuid.New()
	submitterID := uuid.New()
	evidence := "https://example.com/proof.png"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM goal_submissions WHERE id = \$1`).
		WithArgs(subID).
		WillReturnRows(submissionRow(
			subID, goalID, submitterID, StatusPending, &evidence,
			time.Now().UTC(),
		))
	mock.ExpectQuery(`SELECT (.+) FROM goals WHERE id = \$1 FOR UPDATE`).
		WithArgs(goalID).
		WillReturnRows(goalRow(goalID, goal.ScopeUser, true))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM uploads`).
		WithArgs(subID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(goalID, submitterID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := svc.Approve(context.Background(), uuid.New(), subID)
	require.ErrorIs(t, err, ErrAlreadyCompletedToday)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectWithoutReason(t *testing.T) {
	svc, mock := newTestService(t)

	subID := uuid.New()
	goalID := uuid.New()
	reviewerID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM goal_submissions WHERE id = \$1`).
		WithArgs(subID).
		WillReturnRows(submissionRow(
			subID, goalID, uuid.New(), StatusPending, nil, time.Now().UTC(),
		))
	mock.ExpectExec(`UPDATE goal_submissions`).
		WithArgs(subID, reviewerID, StatusRejected, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Reject(context.Background(), reviewerID, subID, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReversesApprovedCredits(t *testing.T) {
	svc, mock := newTestService(t)

	subID := uuid.New()
	goalID := uuid.New()
	submitterID := uuid.New()
	createdAt := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM goal_submissions WHERE id = \$1`).
		WithArgs(subID).
		WillReturnRows(submissionRow(
			subID, goalID, submitterID, StatusApproved, nil, createdAt,
		))
	mock.ExpectQuery(`SELECT (.+) FROM goals WHERE id = \$1 FOR UPDATE`).
		WithArgs(goalID).
		WillReturnRows(goalRow(goalID, goal.ScopeUser, true))
	mock.ExpectExec(`UPDATE user_stats SET`).
		WithArgs(submitterID, stats.Day(createdAt), 1, 10, 1, 0, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE user_stats SET`).
		WithArgs(submitterID, stats.Day(createdAt), 0, 0, 0, 0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM uploads WHERE goal_submission_id`).
		WithArgs(subID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "kind", "storage_path", "mime_type", "size_bytes",
			"goal_submission_id", "user_id", "created_at",
		}))
	mock.ExpectExec(`DELETE FROM uploads WHERE goal_submission_id`).
		WithArgs(subID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM goal_submissions WHERE id`).
		WithArgs(subID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Delete(context.Background(), uuid.New(), subID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminCreatePendingDoesNotCreditApproval(t *testing.T) {
	svc, mock := newTestService(t)

	goalID := uuid.New()
	userID := uuid.New()
	createdAt := time.Date(2026, 8, 28, 11, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM goals WHERE id = \$1 FOR UPDATE`).
		WithArgs(goalID).
		WillReturnRows(goalRow(goalID, goal.ScopeUser, true))
	mock.ExpectQuery(`INSERT INTO goal_submissions`).
		WithArgs(
			sqlmock.AnyArg(), goalID, userID, nil, nil, nil,
			StatusPending, nil, nil,
		).
		WillReturnRows(
			sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt),
		)
	mock.ExpectExec(`INSERT INTO user_stats`).
		WithArgs(
			sqlmock.AnyArg(), userID, stats.Day(createdAt),
			0, 0, 0, 0, 1,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// no explicit status: admin create defaults to PENDING
	sub, err := svc.AdminCreate(context.Background(), uuid.New(),
		AdminCreateSubmissionRequest{
			GoalID: goalID,
			UserID: userID,
		})
	require.NoError(t, err)
	require.Equal(t, StatusPending, sub.Status)
	require.Nil(t, sub.ReviewedBy)
	require.Nil(t, sub.ReviewedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMissingGoalIsNotFound(t *testing.T) {
	svc, mock := newTestService(t)

	goalID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM goals WHERE id = \$1`).
		WithArgs(goalID).
		WillReturnRows(sqlmock.NewRows(goalCols))

	_, err := svc.Create(
		context.Background(),
		uuid.New(),
		CreateSubmissionRequest{GoalID: goalID},
		nil,
	)
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
