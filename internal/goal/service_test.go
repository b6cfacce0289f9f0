// AngelaMos | 2026
// service_test.go

package goal

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
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(
		NewRepository(db),
		audit.NewService(audit.NewRepository(db), logger),
		logger,
	), mock
}

func TestCreateUserGoalIsDaily(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec(`INSERT INTO goals`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	g, err := svc.Create(context.Background(), uuid.New(), CreateGoalRequest{
		Title:       "Play one ranked match",
		Description: "Any queue counts",
		Type:        TypeRanked,
		Scope:       ScopeUser,
	})
	require.NoError(t, err)
	require.True(t, g.IsDaily)
	require.Equal(t, VisibilityClan, g.Visibility)
	require.Equal(t, StatusActive, g.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateClanGoalIsNotDaily(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec(`INSERT INTO goals`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	g, err := svc.Create(context.Background(), uuid.New(), CreateGoalRequest{
		Title:       "Clan war victories",
		Description: "Collective total for the season",
		Type:        TypeEvent,
		Scope:       ScopeClan,
	})
	require.NoError(t, err)
	require.False(t, g.IsDaily)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsInvertedWindow(t *testing.T) {
	svc, _ := newTestService(t)

	starts := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	ends := starts.Add(-24 * time.Hour)

	_, err := svc.Create(context.Background(), uuid.New(), CreateGoalRequest{
		Title:    "Broken window",
		Type:     TypeOther,
		Scope:    ScopeClan,
		StartsAt: &starts,
		EndsAt:   &ends,
	})
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestActiveAt(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	g := &Goal{Status: StatusActive}
	require.True(t, g.ActiveAt(now))

	g.Status = StatusPaused
	require.False(t, g.ActiveAt(now))

	g.Status = StatusArchived
	require.False(t, g.ActiveAt(now))

	g = &Goal{Status: StatusActive, StartsAt: &after}
	require.False(t, g.ActiveAt(now))

	g = &Goal{Status: StatusActive, EndsAt: &before}
	require.False(t, g.ActiveAt(now))

	g = &Goal{Status: StatusActive, StartsAt: &before, EndsAt: &after}
	require.True(t, g.ActiveAt(now))
}
