// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tdfclan/portal/internal/audit"
	"github.com/tdfclan/portal/internal/core"
)

const tempPasswordLength = 12

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

func (s *Service) List(
	ctx context.Context,
	filter ListUsersFilter,
) ([]User, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 25
	}

	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, s.repo.db, id)
}

// AdminCreate provisions an account with a generated temporary password.
// The plaintext is returned exactly once so the creator can hand it over;
// the account is flagged for a forced password change on first login.
func (s *Service) AdminCreate(
	ctx context.Context,
	actorID uuid.UUID,
	req CreateUserRequest,
) (*User, string, error) {
	tempPassword, err := core.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, "", err
	}

	hash, err := core.HashPassword(tempPassword)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	u := &User{
		ID:                 uuid.New(),
		Nickname:           core.SanitizeText(req.Nickname, 32),
		DiscordTag:         core.SanitizeText(req.DiscordTag, 64),
		Email:              req.Email,
		PasswordHash:       hash,
		Role:               req.Role,
		Status:             StatusActive,
		MustChangePassword: true,
		JoinedAt:           &now,
	}

	if u.Nickname == "" {
		return nil, "", core.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, s.repo.db, u); err != nil {
		return nil, "", err
	}

	s.audit.Log(ctx, actorID, "USER_CREATED", "user", u.ID.String(), map[string]any{
		"nickname": u.Nickname,
		"role":     u.Role,
	})

	return u, tempPassword, nil
}

func (s *Service) ChangeRole(
	ctx context.Context,
	actorID, targetID uuid.UUID,
	role string,
) error {
	if !ValidRole(role) {
		return core.ErrInvalidInput
	}

	if actorID == targetID {
		return core.ForbiddenError("cannot change your own role")
	}

	if err := s.repo.UpdateRole(ctx, targetID, role); err != nil {
		return err
	}

	s.audit.Log(ctx, actorID, "USER_ROLE_CHANGED", "user", targetID.String(), map[string]any{
		"role": role,
	})

	return nil
}

func (s *Service) ChangeStatus(
	ctx context.Context,
	actorID, targetID uuid.UUID,
	status string,
) error {
	if !ValidStatus(status) {
		return core.ErrInvalidInput
	}

	if actorID == targetID {
		return core.ForbiddenError("cannot change your own status")
	}

	if err := s.repo.UpdateStatus(ctx, targetID, status); err != nil {
		return err
	}

	s.audit.Log(ctx, actorID, "USER_STATUS_CHANGED", "user", targetID.String(), map[string]any{
		"status": status,
	})

	return nil
}

func (s *Service) Deactivate(
	ctx context.Context,
	actorID, targetID uuid.UUID,
) error {
	return s.ChangeStatus(ctx, actorID, targetID, StatusInactive)
}

// ResetPassword issues a fresh temporary password for the target user and
// forces a change on next login. Staff-only.
func (s *Service) ResetPassword(
	ctx context.Context,
	actorID, targetID uuid.UUID,
) (string, error) {
	if _, err := s.repo.GetByID(ctx, s.repo.db, targetID); err != nil {
		return "", err
	}

	tempPassword, err := core.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return "", err
	}

	hash, err := core.HashPassword(tempPassword)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdatePassword(ctx, s.repo.db, targetID, hash, true); err != nil {
		return "", err
	}

	s.audit.Log(ctx, actorID, "USER_PASSWORD_RESET", "user", targetID.String(), nil)

	return tempPassword, nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	req UpdateProfileRequest,
) (*User, error) {
	discordTag := core.SanitizeTextPtr(req.DiscordTag, 64)

	if err := s.repo.UpdateProfile(ctx, userID, discordTag, req.Email); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, s.repo.db, userID)
}

// ExportCSV streams the member roster. Password hashes never leave the
// repository layer boundary here.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{
		"id",
		"nickname",
		"discord_tag",
		"role",
		"status",
		"must_change_password",
		"joined_at",
		"created_at",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range users {
		u := &users[i]

		joinedAt := ""
		if u.JoinedAt != nil {
			joinedAt = u.JoinedAt.UTC().Format(time.RFC3339)
		}

		record := []string{
			u.ID.String(),
			u.Nickname,
			u.DiscordTag,
			u.Role,
			u.Status,
			strconv.FormatBool(u.MustChangePassword),
			joinedAt,
			u.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
