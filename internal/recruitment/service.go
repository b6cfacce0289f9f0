// AngelaMos | 2026
// service.go

package recruitment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tdfclan/portal/internal/audit"
	"github.com/tdfclan/portal/internal/core"
	"github.com/tdfclan/portal/internal/notification"
	"github.com/tdfclan/portal/internal/user"
)

const tempPasswordLength = 12

type Service struct {
	db         *core.Database
	repo       *Repository
	users      *user.Repository
	challenger *Challenger
	notify     *notification.Service
	audit      *audit.Service
	logger     *slog.Logger
}

func NewService(
	db *core.Database,
	repo *Repository,
	users *user.Repository,
	challenger *Challenger,
	notify *notification.Service,
	auditSvc *audit.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:         db,
		repo:       repo,
		users:      users,
		challenger: challenger,
		notify:     notify,
		audit:      auditSvc,
		logger:     logger,
	}
}

func (s *Service) IssueChallenge() (*Challenge, error) {
	return s.challenger.Issue()
}

// Submit verifies the anti-bot challenge, sanitizes the free-text fields
// and records the application as PENDING. Staff are notified in-app and on
// Discord.
func (s *Service) Submit(
	ctx context.Context,
	req SubmitApplicationRequest,
) (*Application, error) {
	if err := s.challenger.Verify(
		req.ChallengeToken,
		req.ChallengeAnswer,
	); err != nil {
		return nil, err
	}

	a := &Application{
		ID:               uuid.New(),
		Nickname:         core.SanitizeText(req.Nickname, 32),
		DiscordTag:       core.SanitizeText(req.DiscordTag, 64),
		Age:              req.Age,
		Region:           core.SanitizeText(req.Region, 64),
		GameExperience:   core.SanitizeText(req.GameExperience, 2000),
		HighestRank:      core.SanitizeText(req.HighestRank, 64),
		Preferences:      core.SanitizeText(req.Preferences, 1000),
		WeeklyHours:      req.WeeklyHours,
		PriorClan:        req.PriorClan,
		WhyLeftPriorClan: core.SanitizeTextPtr(req.WhyLeftPriorClan, 1000),
		WhyJoinUs:        core.SanitizeText(req.WhyJoinUs, 2000),
		PortfolioLinks:   core.SanitizeTextPtr(req.PortfolioLinks, 1000),
		Status:           StatusPending,
	}

	if a.Nickname == "" || a.WhyJoinUs == "" {
		return nil, core.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.notify.NotifyStaff(ctx,
		notification.TypeApplicationReceived,
		"New application",
		fmt.Sprintf("%s applied to join (%s)", a.Nickname, a.Region),
	)

	return a, nil
}

func (s *Service) List(
	ctx context.Context,
	status string,
	page, pageSize int,
) ([]Application, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}

	return s.repo.List(ctx, status, page, pageSize)
}

func (s *Service) Get(
	ctx context.Context,
	id uuid.UUID,
) (*Application, error) {
	return s.repo.GetByID(ctx, s.db.DB, id)
}

// Accept turns a PENDING application into a MEMBER account in one
// transaction: generate a temporary password, create the user flagged for
// a forced password change, and mark the application accepted. The
// plaintext password is returned once to the accepting staff member.
func (s *Service) Accept(
	ctx context.Context,
	reviewerID, applicationID uuid.UUID,
) (*AcceptResponse, error) {
	tempPassword, err := core.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, err
	}

	hash, err := core.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	var newUser *user.User

	err = core.InTx(ctx, s.db.DB, func(tx *sqlx.Tx) error {
		a, err := s.repo.GetByID(ctx, tx, applicationID)
		if err != nil {
			return err
		}

		if a.Status != StatusPending {
			return ErrAlreadyReviewed
		}

		now := time.Now().UTC()
		newUser = &user.User{
			ID:                 uuid.New(),
			Nickname:           a.Nickname,
			DiscordTag:         a.DiscordTag,
			PasswordHash:       hash,
			Role:               user.RoleMember,
			Status:             user.StatusActive,
			MustChangePassword: true,
			JoinedAt:           &now,
		}

		if err := s.users.Create(ctx, tx, newUser); err != nil {
			return err
		}

		return s.repo.MarkAccepted(ctx, tx, a.ID, reviewerID, newUser.ID)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, reviewerID, "APPLICATION_ACCEPTED", "application",
		applicationID.String(), map[string]any{
			"user_id":  newUser.ID.String(),
			"nickname": newUser.Nickname,
		})
	s.notify.Announce(ctx, fmt.Sprintf(
		"%s has been accepted into the clan. Welcome!",
		newUser.Nickname,
	))
	s.notify.Notify(ctx, newUser.ID,
		notification.TypeSystem,
		"Welcome to the clan",
		"Your application was accepted. Change your temporary password on first login.",
	)

	return &AcceptResponse{
		UserID:       newUser.ID,
		Nickname:     newUser.Nickname,
		TempPassword: tempPassword,
	}, nil
}

// Reject marks a PENDING application rejected. The reason is optional and
// recorded in the audit trail only; applicants have no account to notify.
func (s *Service) Reject(
	ctx context.Context,
	reviewerID, applicationID uuid.UUID,
	reason *string,
) error {
	a, err := s.repo.GetByID(ctx, s.db.DB, applicationID)
	if err != nil {
		return err
	}

	if err := s.repo.MarkRejected(ctx, applicationID, reviewerID); err != nil {
		return err
	}

	var meta map[string]any
	if clean := core.SanitizeTextPtr(reason, 1000); clean != nil {
		meta = map[string]any{"reason": *clean}
	}

	s.audit.Log(ctx, reviewerID, "APPLICATION_REJECTED", "application",
		applicationID.String(), meta)
	s.notify.Announce(ctx, fmt.Sprintf(
		"Application from %s was declined.", a.Nickname,
	))

	return nil
}
