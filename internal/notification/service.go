// AngelaMos | 2026
// service.go

package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

const defaultListLimit = 50

type Service struct {
	repo    *Repository
	discord *DiscordClient
	logger  *slog.Logger
}

func NewService(
	repo *Repository,
	discord *DiscordClient,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		discord: discord,
		logger:  logger,
	}
}

// Notify writes an in-app notification. Best-effort: a failed write is
// logged and swallowed so the triggering operation is unaffected.
func (s *Service) Notify(
	ctx context.Context,
	recipientID uuid.UUID,
	notifType, title, message string,
) {
	n := &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Type:        notifType,
		Title:       title,
		Message:     message,
	}

	if err := s.repo.Insert(ctx, n); err != nil {
		s.logger.Error("notification write failed",
			"recipient_id", recipientID,
			"type", notifType,
			"error", err,
		)
	}
}

func (s *Service) NotifyMany(
	ctx context.Context,
	recipientIDs []uuid.UUID,
	notifType, title, message string,
) {
	notifications := make([]Notification, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		notifications = append(notifications, Notification{
			ID:          uuid.New(),
			RecipientID: id,
			Type:        notifType,
			Title:       title,
			Message:     message,
		})
	}

	if err := s.repo.InsertMany(ctx, notifications); err != nil {
		s.logger.Error("bulk notification write failed",
			"recipients", len(recipientIDs),
			"type", notifType,
			"error", err,
		)
	}
}

// NotifyStaff fans out to all active staff accounts and mirrors the
// message to the Discord staff channel.
func (s *Service) NotifyStaff(
	ctx context.Context,
	notifType, title, message string,
) {
	staffIDs, err := s.repo.ListStaffIDs(ctx)
	if err != nil {
		s.logger.Error("staff lookup for notification failed", "error", err)
	} else {
		s.NotifyMany(ctx, staffIDs, notifType, title, message)
	}

	s.Announce(ctx, title+": "+message)
}

// Announce mirrors a message to Discord only. Satisfies auth.StaffAnnouncer.
func (s *Service) Announce(ctx context.Context, message string) {
	if s.discord != nil {
		s.discord.Announce(ctx, message)
	}
}

func (s *Service) List(
	ctx context.Context,
	recipientID uuid.UUID,
	unreadOnly bool,
) ([]Notification, int, error) {
	notifications, err := s.repo.ListByRecipient(
		ctx,
		recipientID,
		unreadOnly,
		defaultListLimit,
	)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, 0, err
	}

	return notifications, unread, nil
}

func (s *Service) MarkRead(
	ctx context.Context,
	id, recipientID uuid.UUID,
) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

func (s *Service) MarkAllRead(
	ctx context.Context,
	recipientID uuid.UUID,
) error {
	return s.repo.MarkAllRead(ctx, recipientID)
}
