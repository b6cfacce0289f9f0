// AngelaMos | 2026
// service.go

package stats

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tdfclan/portal/internal/core"
)

const rankingSize = 20

// Approval point values. A daily goal approval earns a daily-goal point,
// a clan contribution earns a contribution count; both earn rank points.
const (
	rankPointsPerApproval = 10
)

func ApprovalDelta(isDailyUserGoal bool) Delta {
	d := Delta{
		GoalsCompleted: 1,
		RankPoints:     rankPointsPerApproval,
	}
	if isDailyUserGoal {
		d.DailyGoalsPoints = 1
	} else {
		d.ClanContribApprovedCount = 1
	}
	return d
}

func SubmissionDelta() Delta {
	return Delta{SubmissionsMade: 1}
}

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// ApplyApproval credits an approved submission to the approval day's
// snapshot. Runs inside the caller's transaction.
func (s *Service) ApplyApproval(
	ctx context.Context,
	q core.DBTX,
	userID uuid.UUID,
	at time.Time,
	isDailyUserGoal bool,
) error {
	return s.repo.Apply(ctx, q, userID, at, ApprovalDelta(isDailyUserGoal))
}

// ReverseApproval removes previously credited counters, keyed by the day
// the credit was applied. Counters floor at zero.
func (s *Service) ReverseApproval(
	ctx context.Context,
	q core.DBTX,
	userID uuid.UUID,
	creditedAt time.Time,
	isDailyUserGoal bool,
) error {
	return s.repo.Reverse(ctx, q, userID, creditedAt, ApprovalDelta(isDailyUserGoal))
}

func (s *Service) RecordSubmission(
	ctx context.Context,
	q core.DBTX,
	userID uuid.UUID,
	at time.Time,
) error {
	return s.repo.Apply(ctx, q, userID, at, SubmissionDelta())
}

func (s *Service) ReverseSubmission(
	ctx context.Context,
	q core.DBTX,
	userID uuid.UUID,
	recordedAt time.Time,
) error {
	return s.repo.Reverse(ctx, q, userID, recordedAt, SubmissionDelta())
}

func (s *Service) Ranking(ctx context.Context) ([]RankingRow, error) {
	return s.repo.TopRanking(ctx, rankingSize)
}

func (s *Service) UserTotals(
	ctx context.Context,
	userID uuid.UUID,
) (*RankingRow, error) {
	return s.repo.UserTotals(ctx, userID)
}
