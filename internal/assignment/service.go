// AngelaMos | 2026
// service.go

package assignment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tdfclan/portal/internal/audit"
	"github.com/tdfclan/portal/internal/core"
	"github.com/tdfclan/portal/internal/notification"
)

type Service struct {
	db     *core.Database
	repo   *Repository
	notify *notification.Service
	audit  *audit.Service
	logger *slog.Logger
}

func NewService(
	db *core.Database,
	repo *Repository,
	notify *notification.Service,
	auditSvc *audit.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:     db,
		repo:   repo,
		notify: notify,
		audit:  auditSvc,
		logger: logger,
	}
}

// Create builds the assignment and fans out one OPEN submission per
// assignee in a single transaction, then notifies the assignees.
func (s *Service) Create(
	ctx context.Context,
	actorID uuid.UUID,
	req CreateAssignmentRequest,
) (*Assignment, error) {
	a := &Assignment{
		ID:          uuid.New(),
		Title:       core.SanitizeText(req.Title, 120),
		Description: core.SanitizeText(req.Description, 2000),
		CreatedBy:   actorID,
	}

	if a.Title == "" {
		return nil, core.ErrInvalidInput
	}

	assignees := dedupe(req.AssigneeIDs)

	err := core.InTx(ctx, s.db.DB, func(tx *sqlx.Tx) error {
		if err := s.repo.CreateAssignment(ctx, tx, a); err != nil {
			return err
		}
		return s.repo.FanOut(ctx, tx, a.ID, assignees)
	})
	if err != nil {
		return nil, err
	}

	s.notify.NotifyMany(ctx, assignees,
		notification.TypeAssignmentCreated,
		"New assignment",
		fmt.Sprintf("You have been assigned: %s", a.Title),
	)
	s.audit.Log(ctx, actorID, "ASSIGNMENT_CREATED", "assignment",
		a.ID.String(), map[string]any{"assignees": len(assignees)})

	return a, nil
}

func (s *Service) List(ctx context.Context) ([]AssignmentResponse, error) {
	assignments, err := s.repo.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		counts, err := s.repo.Counts(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, AssignmentResponse{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			CreatedBy:   a.CreatedBy,
			CreatedAt:   a.CreatedAt,
			Counts:      *counts,
		})
	}

	return out, nil
}

func (s *Service) ListSubmissions(
	ctx context.Context,
	assignmentID uuid.UUID,
) ([]AssignmentSubmission, error) {
	if _, err := s.repo.GetAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}
	return s.repo.ListSubmissions(ctx, assignmentID)
}

func (s *Service) Mine(
	ctx context.Context,
	userID uuid.UUID,
) ([]MyAssignment, error) {
	return s.repo.ListMine(ctx, userID)
}

// Submit fills in the caller's own fan-out row. A member who was never
// assigned has no row, which reads as not found.
func (s *Service) Submit(
	ctx context.Context,
	assignmentID, userID uuid.UUID,
	req SubmitRequest,
) (*AssignmentSubmission, error) {
	sub, err := s.repo.GetSubmissionForUser(ctx, assignmentID, userID)
	if err != nil {
		return nil, err
	}

	explanation := core.SanitizeTextPtr(req.Explanation, 1000)

	if err := s.repo.MarkSubmitted(
		ctx, sub.ID, explanation, req.EvidenceURL,
	); err != nil {
		return nil, err
	}

	return s.repo.GetSubmission(ctx, sub.ID)
}

func (s *Service) Approve(
	ctx context.Context,
	reviewerID, submissionID uuid.UUID,
) error {
	return s.review(ctx, reviewerID, submissionID, StatusApproved)
}

func (s *Service) Reject(
	ctx context.Context,
	reviewerID, submissionID uuid.UUID,
) error {
	return s.review(ctx, reviewerID, submissionID, StatusRejected)
}

func (s *Service) review(
	ctx context.Context,
	reviewerID, submissionID uuid.UUID,
	status string,
) error {
	sub, err := s.repo.GetSubmission(ctx, submissionID)
	if err != nil {
		return err
	}

	if err := s.repo.MarkReviewed(ctx, submissionID, reviewerID, status); err != nil {
		return err
	}

	s.notify.Notify(ctx, sub.UserID,
		notification.TypeAssignmentReviewed,
		"Assignment reviewed",
		fmt.Sprintf("Your assignment submission was %s", status),
	)
	s.audit.Log(ctx, reviewerID, "ASSIGNMENT_"+status, "assignment_submission",
		submissionID.String(), nil)

	return nil
}

func (s *Service) DeleteSubmission(
	ctx context.Context,
	actorID, submissionID uuid.UUID,
) error {
	if err := s.repo.DeleteSubmission(ctx, submissionID); err != nil {
		return err
	}

	s.audit.Log(ctx, actorID, "ASSIGNMENT_SUBMISSION_DELETED",
		"assignment_submission", submissionID.String(), nil)

	return nil
}

// Delete removes the assignment and every fan-out row in one transaction.
func (s *Service) Delete(
	ctx context.Context,
	actorID, assignmentID uuid.UUID,
) error {
	err := core.InTx(ctx, s.db.DB, func(tx *sqlx.Tx) error {
		return s.repo.DeleteAssignment(ctx, tx, assignmentID)
	})
	if err != nil {
		return err
	}

	s.audit.Log(ctx, actorID, "ASSIGNMENT_DELETED", "assignment",
		assignmentID.String(), nil)

	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
