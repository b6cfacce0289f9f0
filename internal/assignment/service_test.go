// AngelaMos | 2026
// service_test.go

package assignment

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
	"github.com/tdfclan/portal/internal/notification"
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
		notification.NewService(notification.NewRepository(db), nil, logger),
		audit.NewService(audit.NewRepository(db), logger),
		logger,
	)

	return svc, mock
}

var submissionCols = []string{
	"id", "assignment_id", "user_id", "status", "explanation",
	"evidence_url", "submitted_at", "reviewed_by", "reviewed_at",
	"created_at",
}

func TestCreateFansOutPerAssignee(t *testing.T) {
	svc, mock := newTestService(t)

	actorID := uuid.New()
	a := uuid.New()
	b := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO assignments`).
		WithArgs(sqlmock.AnyArg(), "Scrim attendance", "Show up", actorID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO assignment_submissions`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	created, err := svc.Create(context.Background(), actorID, CreateAssignmentRequest{
		Title:       "Scrim attendance",
		Description: "Show up",
		// duplicate assignee collapses to one fan-out row
		AssigneeIDs: []uuid.UUID{a, b, a},
	})
	require.NoError(t, err)
	require.Equal(t, "Scrim attendance", created.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitUnassignedIsNotFound(t *testing.T) {
	svc, mock := newTestService(t)

	assignmentID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM assignment_submissions`).
		WithArgs(assignmentID, userID).
		WillReturnRows(sqlmock.NewRows(submissionCols))

	_, err := svc.Submit(
		context.Background(),
		assignmentID,
		userID,
		SubmitRequest{},
	)
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRequiresSubmittedState(t *testing.T) {
	svc, mock := newTestService(t)

	submissionID := uuid.New()
	reviewerID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM assignment_submissions`).
		WithArgs(submissionID).
		WillReturnRows(sqlmock.NewRows(submissionCols).AddRow(
			submissionID, uuid.New(), uuid.New(), StatusOpen,
			nil, nil, nil, nil, nil, time.Now().UTC(),
		))
	// status guard matches no rows for an OPEN submission
	mock.ExpectExec(`UPDATE assignment_submissions`).
		WithArgs(submissionID, reviewerID, StatusApproved).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.Approve(context.Background(), reviewerID, submissionID)
	require.ErrorIs(t, err, ErrNotSubmitted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDedupe(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	out := dedupe([]uuid.UUID{a, b, a, b, a})
	require.Equal(t, []uuid.UUID{a, b}, out)
}
