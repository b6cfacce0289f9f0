// AngelaMos | 2026
// service_test.go

package recruitment

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
	"github.com/tdfclan/portal/internal/config"
	"github.com/tdfclan/portal/internal/core"
	"github.com/tdfclan/portal/internal/notification"
	"github.com/tdfclan/portal/internal/user"
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
		user.NewRepository(db),
		NewChallenger(config.ChallengeConfig{
			Secret: "test-secret",
			TTL:    5 * time.Minute,
		}),
		notification.NewService(notification.NewRepository(db), nil, logger),
		audit.NewService(audit.NewRepository(db), logger),
		logger,
	)

	return svc, mock
}

var applicationCols = []string{
	"id", "nickname", "discord_tag", "age", "region", "game_experience",
	"highest_rank", "preferences", "weekly_hours", "prior_clan",
	"why_left_prior_clan", "why_join_us", "portfolio_links", "status",
	"reviewed_by", "reviewed_at", "accepted_user_id", "created_at",
}

func applicationRow(id uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows(applicationCols).AddRow(
		id, "newblood", "newblood#1234", 21, "EU", "three seasons of ranked",
		"Diamond", "flex", 15, false, nil, "active clan with scrims", nil,
		status, nil, nil, nil, time.Now().UTC(),
	)
}

func TestAcceptCreatesMemberOnce(t *testing.T) {
	svc, mock := newTestService(t)

	appID := uuid.New()
	reviewerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM recruitment_applications WHERE id = \$1`).
		WithArgs(appID).
		WillReturnRows(applicationRow(appID, StatusPending))
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE recruitment_applications`).
		WithArgs(appID, reviewerID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := svc.Accept(context.Background(), reviewerID, appID)
	require.NoError(t, err)
	require.Equal(t, "newblood", resp.Nickname)
	require.Len(t, resp.TempPassword, tempPasswordLength)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptAlreadyReviewed(t *testing.T) {
	svc, mock := newTestService(t)

	appID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM recruitment_applications WHERE id = \$1`).
		WithArgs(appID).
		WillReturnRows(applicationRow(appID, StatusAccepted))
	mock.ExpectRollback()

	_, err := svc.Accept(context.Background(), uuid.New(), appID)
	require.ErrorIs(t, err, ErrAlreadyReviewed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptLosesRaceToConcurrentReview(t *testing.T) {
	svc, mock := newTestService(t)

	appID := uuid.New()
	reviewerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM recruitment_applications WHERE id = \$1`).
		WithArgs(appID).
		WillReturnRows(applicationRow(appID, StatusPending))
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// another reviewer got there first; the status guard matches nothing
	mock.ExpectExec(`UPDATE recruitment_applications`).
		WithArgs(appID, reviewerID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.Accept(context.Background(), reviewerID, appID)
	require.ErrorIs(t, err, ErrAlreadyReviewed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectRecordsReasonInAudit(t *testing.T) {
	svc, mock := newTestService(t)

	appID := uuid.New()
	reviewerID := uuid.New()
	reason := "region mismatch"

	mock.ExpectQuery(`SELECT (.+) FROM recruitment_applications WHERE id = \$1`).
		WithArgs(appID).
		WillReturnRows(applicationRow(appID, StatusPending))
	mock.ExpectExec(`UPDATE recruitment_applications`).
		WithArgs(appID, reviewerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_logs`).
		WithArgs(
			sqlmock.AnyArg(), reviewerID, "APPLICATION_REJECTED",
			"application", appID.String(),
			[]byte(`{"reason":"region mismatch"}`),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Reject(context.Background(), reviewerID, appID, &reason)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitRequiresValidChallenge(t *testing.T) {
	svc, mock := newTestService(t)

	_, err := svc.Submit(context.Background(), SubmitApplicationRequest{
		Nickname:        "newblood",
		WhyJoinUs:       "scrims",
		ChallengeToken:  "bogus",
		ChallengeAnswer: "ABC123",
	})
	require.ErrorIs(t, err, ErrChallengeFailed)
	require.NoError(t, mock.ExpectationsWereMet())
}
