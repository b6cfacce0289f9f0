// AngelaMos | 2026
// service.go

package submission

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tdfclan/portal/internal/audit"
	"github.com/tdfclan/portal/internal/core"
	"github.com/tdfclan/portal/internal/goal"
	"github.com/tdfclan/portal/internal/notification"
	"github.com/tdfclan/portal/internal/stats"
	"github.com/tdfclan/portal/internal/upload"
)

type Service struct {
	db      *core.Database
	repo    *Repository
	goals   *goal.Repository
	uploads *upload.Repository
	store   *upload.Store
	stats   *stats.Service
	notify  *notification.Service
	audit   *audit.Service
	logger  *slog.Logger
}

func NewService(
	db *core.Database,
	repo *Repository,
	goals *goal.Repository,
	uploads *upload.Repository,
	store *upload.Store,
	statsSvc *stats.Service,
	notify *notification.Service,
	auditSvc *audit.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:      db,
		repo:    repo,
		goals:   goals,
		uploads: uploads,
		store:   store,
		stats:   statsSvc,
		notify:  notify,
		audit:   auditSvc,
		logger:  logger,
	}
}

// Create records a PENDING submission with optional evidence files. Files
// land on disk before the transaction and are cleaned up if it fails.
func (s *Service) Create(
	ctx context.Context,
	userID uuid.UUID,
	req CreateSubmissionRequest,
	files []*multipart.FileHeader,
) (*Submission, error) {
	g, err := s.goals.GetByID(ctx, s.db.DB, req.GoalID)
	if err != nil {
		return nil, err
	}

	sub := &Submission{
		ID:          uuid.New(),
		GoalID:      g.ID,
		SubmittedBy: userID,
		Amount:      req.Amount,
		Note:        core.SanitizeTextPtr(req.Note, 1000),
		EvidenceURL: req.EvidenceURL,
		Status:      StatusPending,
	}

	type savedFile struct {
		path     string
		mimeType string
		size     int64
	}

	saved := make([]savedFile, 0, len(files))
	cleanup := func() {
		for _, f := range saved {
			s.store.Remove(f.path)
		}
	}

	for _, fh := range files {
		path, mimeType, size, saveErr := s.store.Save(fh)
		if saveErr != nil {
			cleanup()
			return nil, saveErr
		}
		saved = append(saved, savedFile{path, mimeType, size})
	}

	err = core.InTx(ctx, s.db.DB, func(tx *sqlx.Tx) error {
		if err := s.repo.Create(ctx, tx, sub); err != nil {
			return err
		}

		for _, f := range saved {
			up := &upload.Upload{
				ID:               uuid.New(),
				Kind:             upload.KindEvidence,
				StoragePath:      f.path,
				MimeType:         f.mimeType,
				SizeBytes:        f.size,
				GoalSubmissionID: &sub.ID,
				UserID:           &userID,
			}
			if err := s.uploads.Create(ctx, tx, up); err != nil {
				return err
			}
		}

		return s.stats.RecordSubmission(ctx, tx, userID, sub.CreatedAt)
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	s.notify.NotifyStaff(ctx,
		notification.TypeSubmissionReviewed,
		"New submission",
		fmt.Sprintf("New submission for goal %q awaits review", g.Title),
	)

	return sub, nil
}

// Approve moves a PENDING submission to APPROVED and credits the
// submitter's stats. The goal row is locked for the whole transaction so
// two approvals for the same daily goal cannot both pass the
// once-per-day check.
func (s *Service) Approve(
	ctx context.Context,
	reviewerID, submissionID uuid.UUID,
) error {
	var submitterID uuid.UUID
	var goalTitle string
	var amount *int64
	var unit *string

	err := core.InTx(ctx, s.db.DB, func(tx *sqlx.Tx) error {
		sub, err := s.repo.GetByID(ctx, tx, submissionID)
		if err != nil {
			return err
		}

		g, err := s.goals.GetByIDForUpdate(ctx, tx, sub.GoalID)
		if err != nil {
			return err
		}

		if sub.Status != StatusPending {
			return ErrAlreadyReviewed
		}

		evidenceCount, err := s.uploads.CountBySubmission(ctx, tx, sub.ID)
		if err != nil {
			return err
		}
		if evidenceCount == 0 && sub.EvidenceURL == nil {
			return ErrEvidenceRequired
		}

		isDailyUserGoal := g.IsDaily && g.Scope == goal.ScopeUser
		if isDailyUserGoal {
			done, err := s.repo.HasApprovedSince(
				ctx,
				tx,
				g.ID,
				sub.SubmittedBy,
				stats.Day(time.Now()),
			)
			if err != nil {
				return err
			}
			if done {
				return ErrAlreadyCompletedToday
			}
		}

		if err := s.repo.MarkReviewed(
			ctx, tx, sub.ID, reviewerID, StatusApproved, nil,
		); err != nil {
			return err
		}

		// credit lands on the approval day; deletion reverses against the
		// submission's creation day (see Delete)
		if err := s.stats.ApplyApproval(
			ctx, tx, sub.SubmittedBy, time.Now(), isDailyUserGoal,
		); err != nil {
			return err
		}

		submitterID = sub.SubmittedBy
		goalTitle = g.Title
		amount = sub.Amount
		unit = g.Unit
		return nil
	})
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Your submission for %q was approved", goalTitle)
	if amount != nil {
		if unit != nil {
			msg = fmt.Sprintf("%s (%d %s)", msg, *amount, *unit)
		} else {
			msg = fmt.Sprintf("%s (%d)", msg, *amount)
		}
	}
	s.notify.Notify(ctx, submitterID,
		notification.TypeSubmissionReviewed,
		"Submission approved",
		msg,
	)
	s.audit.Log(ctx, reviewerID, "SUBMISSION_APPROVED", "goal_submission",
		submissionID.String(), nil)

	return nil
}

// Reject moves a PENDING submission to REJECTED. The reason is optional;
// without one the submitter gets a generic notification.
func (s *Service) Reject(
	ctx context.Context,
	reviewerID, submissionID uuid.UUID,
	reason *string,
) error {
	sub, err := s.repo.GetByID(ctx, s.db.DB, submissionID)
	if err != nil {
		return err
	}

	cleanReason := core.SanitizeTextPtr(reason, 500)

	if err := s.repo.MarkReviewed(
		ctx, s.db.DB, submissionID, reviewerID, StatusRejected, cleanReason,
	); err != nil {
		return err
	}

	msg := "Your submission was rejected"
	var meta map[string]any
	if cleanReason != nil {
		msg = *cleanReason
		meta = map[string]any{"reason": *cleanReason}
	}

	s.notify.Notify(ctx, sub.SubmittedBy,
		notification.TypeSubmissionReviewed,
		"Submission rejected",
		msg,
	)
	s.audit.Log(ctx, reviewerID, "SUBMISSION_REJECTED", "goal_submission",
		submissionID.String(), meta)

	return nil
}

// Delete removes a submission entirely. An approved submission has its
// stat credits reversed first, keyed by the day they were granted; the
// counters floor at zero. Evidence files are unlinked after commit.
func (s *Service) Delete(
	ctx context.Context,
	actorID, submissionID uuid.UUID,
) error {
	var storagePaths []string
	var submitterID uuid.UUID
	var goalTitle string

	err := core.InTx(ctx, s.db.DB, func(tx *sqlx.Tx) error {
		sub, err := s.repo.GetByID(ctx, tx, submissionID)
		if err != nil {
			return err
		}
		submitterID = sub.SubmittedBy

		g, err := s.goals.GetByIDForUpdate(ctx, tx, sub.GoalID)
		if err != nil {
			return err
		}
		goalTitle = g.Title

		if sub.Status == StatusApproved {
			isDailyUserGoal := g.IsDaily && g.Scope == goal.ScopeUser
			if err := s.stats.ReverseApproval(
				ctx, tx, sub.SubmittedBy, sub.CreatedAt, isDailyUserGoal,
			); err != nil {
				return err
			}
		}

		if err := s.stats.ReverseSubmission(
			ctx, tx, sub.SubmittedBy, sub.CreatedAt,
		); err != nil {
			return err
		}

		files, err := s.uploads.ListBySubmission(ctx, tx, sub.ID)
		if err != nil {
			return err
		}
		for _, f := range files {
			storagePaths = append(storagePaths, f.StoragePath)
		}

		if err := s.uploads.DeleteBySubmission(ctx, tx, sub.ID); err != nil {
			return err
		}

		return s.repo.Delete(ctx, tx, sub.ID)
	})
	if err != nil {
		return err
	}

	for _, path := range storagePaths {
		s.store.Remove(path)
	}

	s.notify.Notify(ctx, submitterID,
		notification.TypeSubmissionReviewed,
		"Submission removed",
		fmt.Sprintf("Your submission for %q was removed by staff", goalTitle),
	)
	s.audit.Log(ctx, actorID, "SUBMISSION_DELETED", "goal_submission",
		submissionID.String(), nil)

	return nil
}

// AdminCreate records a submission on behalf of a member, in any status
// (PENDING when omitted). An APPROVED one bypasses the evidence
// requirement and the daily gate; the staff member vouches for the
// completion.
func (s *Service) AdminCreate(
	ctx context.Context,
	actorID uuid.UUID,
	req AdminCreateSubmissionRequest,
) (*Submission, error) {
	status := req.Status
	if status == "" {
		status = StatusPending
	}

	sub := &Submission{
		ID:          uuid.New(),
		GoalID:      req.GoalID,
		SubmittedBy: req.UserID,
		Amount:      req.Amount,
		Note:        core.SanitizeTextPtr(req.Note, 1000),
		EvidenceURL: req.EvidenceURL,
		Status:      status,
	}
	if status != StatusPending {
		now := time.Now().UTC()
		sub.ReviewedBy = &actorID
		sub.ReviewedAt = &now
	}

	err := core.InTx(ctx, s.db.DB, func(tx *sqlx.Tx) error {
		g, err := s.goals.GetByIDForUpdate(ctx, tx, req.GoalID)
		if err != nil {
			return err
		}

		if err := s.repo.Create(ctx, tx, sub); err != nil {
			return err
		}

		if err := s.stats.RecordSubmission(
			ctx, tx, req.UserID, sub.CreatedAt,
		); err != nil {
			return err
		}

		if status != StatusApproved {
			return nil
		}

		isDailyUserGoal := g.IsDaily && g.Scope == goal.ScopeUser
		return s.stats.ApplyApproval(
			ctx, tx, req.UserID, time.Now(), isDailyUserGoal,
		)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, actorID, "SUBMISSION_ADMIN_CREATED", "goal_submission",
		sub.ID.String(), map[string]any{"user_id": req.UserID.String()})

	return sub, nil
}

func (s *Service) List(
	ctx context.Context,
	filter ListFilter,
) ([]Detail, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 25
	}

	return s.repo.List(ctx, filter)
}

func (s *Service) Mine(
	ctx context.Context,
	userID uuid.UUID,
	page, pageSize int,
) ([]Detail, int, error) {
	return s.List(ctx, ListFilter{
		UserID:   &userID,
		Page:     page,
		PageSize: pageSize,
	})
}

// Get returns a submission with its uploads attached.
func (s *Service) Get(
	ctx context.Context,
	id uuid.UUID,
) (*Detail, []upload.Upload, error) {
	d, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	files, err := s.uploads.ListBySubmission(ctx, s.db.DB, id)
	if err != nil {
		return nil, nil, err
	}

	return d, files, nil
}
