// AngelaMos | 2026
// service.go

package goal

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tdfclan/portal/internal/audit"
	"github.com/tdfclan/portal/internal/core"
)

type Service struct {
	repo   *Repository
	audit  *audit.Service
	logger *slog.Logger
}

func NewService(
	repo *Repository,
	auditSvc *audit.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:   repo,
		audit:  auditSvc,
		logger: logger,
	}
}

// Create builds a goal from the request. USER-scoped goals are daily by
// definition: each member may complete them once per UTC day.
func (s *Service) Create(
	ctx context.Context,
	actorID uuid.UUID,
	req CreateGoalRequest,
) (*Goal, error) {
	if req.StartsAt != nil && req.EndsAt != nil &&
		req.EndsAt.Before(*req.StartsAt) {
		return nil, core.ErrInvalidInput
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = VisibilityClan
	}

	g := &Goal{
		ID:           uuid.New(),
		Title:        core.SanitizeText(req.Title, 120),
		Description:  core.SanitizeText(req.Description, 2000),
		Type:         req.Type,
		Scope:        req.Scope,
		IsDaily:      req.Scope == ScopeUser,
		TargetAmount: req.TargetAmount,
		Unit:         core.SanitizeTextPtr(req.Unit, 32),
		Status:       StatusActive,
		Visibility:   visibility,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		CreatedBy:    actorID,
	}

	if g.Title == "" {
		return nil, core.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, actorID, "GOAL_CREATED", "goal", g.ID.String(), map[string]any{
		"title": g.Title,
		"scope": g.Scope,
	})

	return g, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Goal, error) {
	return s.repo.GetByID(ctx, s.repo.db, id)
}

func (s *Service) List(
	ctx context.Context,
	scope, status string,
) ([]Goal, error) {
	return s.repo.List(ctx, scope, status, false)
}

// ListPublic returns PUBLIC goals only, for the unauthenticated portal page.
func (s *Service) ListPublic(ctx context.Context) ([]Goal, error) {
	return s.repo.List(ctx, "", StatusActive, true)
}

func (s *Service) Update(
	ctx context.Context,
	actorID, id uuid.UUID,
	req UpdateGoalRequest,
) (*Goal, error) {
	g, err := s.repo.GetByID(ctx, s.repo.db, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		g.Title = core.SanitizeText(*req.Title, 120)
	}
	if req.Description != nil {
		g.Description = core.SanitizeText(*req.Description, 2000)
	}
	if req.TargetAmount != nil {
		g.TargetAmount = req.TargetAmount
	}
	if req.Unit != nil {
		g.Unit = core.SanitizeTextPtr(req.Unit, 32)
	}
	if req.Visibility != nil {
		g.Visibility = *req.Visibility
	}
	if req.Status != nil {
		g.Status = *req.Status
	}
	if req.StartsAt != nil {
		g.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		g.EndsAt = req.EndsAt
	}

	if g.StartsAt != nil && g.EndsAt != nil && g.EndsAt.Before(*g.StartsAt) {
		return nil, core.ErrInvalidInput
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, actorID, "GOAL_UPDATED", "goal", g.ID.String(), nil)

	return g, nil
}

func (s *Service) Archive(
	ctx context.Context,
	actorID, id uuid.UUID,
) error {
	if err := s.repo.Archive(ctx, id); err != nil {
		return err
	}

	s.audit.Log(ctx, actorID, "GOAL_ARCHIVED", "goal", id.String(), nil)

	return nil
}

// Progress reports clan-wide approved totals for a CLAN goal.
func (s *Service) Progress(
	ctx context.Context,
	id uuid.UUID,
) (*GoalProgress, error) {
	g, err := s.repo.GetByID(ctx, s.repo.db, id)
	if err != nil {
		return nil, err
	}

	progress := &GoalProgress{GoalResponse: ToResponse(g)}

	if g.Scope == ScopeClan {
		total, err := s.repo.ApprovedAmount(ctx, id)
		if err != nil {
			return nil, err
		}
		progress.ApprovedAmount = total
	}

	return progress, nil
}
