// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tdfclan/portal/internal/audit"
	"github.com/tdfclan/portal/internal/core"
	"github.com/tdfclan/portal/internal/user"
)

const (
	resetTokenBytes = 32
	resetTokenTTL   = time.Hour
)

// StaffAnnouncer delivers operational messages to the staff channel.
// Implementations must be best-effort and non-blocking for callers.
type StaffAnnouncer interface {
	Announce(ctx context.Context, message string)
}

type Service struct {
	db        *core.Database
	users     *user.Repository
	resets    *Repository
	jwt       *JWTManager
	blacklist *Blacklist
	audit     *audit.Service
	announcer StaffAnnouncer
	logger    *slog.Logger
}

func NewService(
	db *core.Database,
	users *user.Repository,
	resets *Repository,
	jwtManager *JWTManager,
	blacklist *Blacklist,
	auditSvc *audit.Service,
	announcer StaffAnnouncer,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:        db,
		users:     users,
		resets:    resets,
		jwt:       jwtManager,
		blacklist: blacklist,
		audit:     auditSvc,
		announcer: announcer,
		logger:    logger,
	}
}

// LoginUser authenticates a member by nickname. Password verification runs
// against a dummy hash when the nickname is unknown so response timing does
// not leak account existence.
func (s *Service) LoginUser(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	u, err := s.users.GetByNickname(ctx, req.Nickname)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	return s.login(ctx, u, req.Password)
}

// LoginAdmin authenticates staff by email. Non-staff accounts are rejected
// even with valid credentials.
func (s *Service) LoginAdmin(
	ctx context.Context,
	req AdminLoginRequest,
) (*LoginResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	resp, err := s.login(ctx, u, req.Password)
	if err != nil {
		return nil, err
	}

	if !u.IsStaff() {
		return nil, core.ForbiddenError("staff access required")
	}

	return resp, nil
}

func (s *Service) login(
	ctx context.Context,
	u *user.User,
	password string,
) (*LoginResponse, error) {
	var hash *string
	if u != nil {
		hash = &u.PasswordHash
	}

	valid, err := core.VerifyPasswordTimingSafe(password, hash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid || u == nil {
		return nil, core.UnauthorizedError("invalid credentials")
	}

	if !u.IsActive() {
		return nil, core.ForbiddenError("account is not active")
	}

	token, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:             u.ID.String(),
		Role:               u.Role,
		Nickname:           u.Nickname,
		MustChangePassword: u.MustChangePassword,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		"user_id", u.ID,
		"role", u.Role,
	)

	return &LoginResponse{
		Token:              token,
		MustChangePassword: u.MustChangePassword,
		User:               user.ToResponse(u),
	}, nil
}

// ChangePassword verifies the current password, installs the new one and
// clears the forced-change flag. Outstanding reset tokens are invalidated
// in the same transaction.
func (s *Service) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	req ChangePasswordRequest,
) (string, error) {
	u, err := s.users.GetByID(ctx, s.db.DB, userID)
	if err != nil {
		return "", err
	}

	valid, err := core.VerifyPassword(req.CurrentPassword, u.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("verify current password: %w", err)
	}
	if !valid {
		return "", core.UnauthorizedError("current password is incorrect")
	}

	newHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return "", err
	}

	err = core.InTx(ctx, s.db.DB, func(tx *sqlx.Tx) error {
		if err := s.users.UpdatePassword(ctx, tx, userID, newHash, false); err != nil {
			return err
		}
		return s.resets.InvalidateUserResets(ctx, tx, userID)
	})
	if err != nil {
		return "", err
	}

	s.audit.Log(ctx, userID, "PASSWORD_CHANGED", "user", userID.String(), nil)

	// reissue so the claims drop must_change_password
	return s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:             u.ID.String(),
		Role:               u.Role,
		Nickname:           u.Nickname,
		MustChangePassword: false,
	})
}

// RequestPasswordReset creates a single-use reset token and announces the
// request to the staff channel, where a staff member hands the token to the
// requester out of band. The response is identical whether or not the
// nickname exists.
func (s *Service) RequestPasswordReset(
	ctx context.Context,
	req RequestResetRequest,
) error {
	u, err := s.users.GetByNickname(ctx, req.Nickname)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := core.GenerateSecureToken(resetTokenBytes)
	if err != nil {
		return err
	}

	reset := &PasswordReset{
		ID:        uuid.New(),
		UserID:    u.ID,
		TokenHash: core.HashToken(token),
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
	}

	if err := s.resets.CreateReset(ctx, reset); err != nil {
		return err
	}

	if s.announcer != nil {
		s.announcer.Announce(ctx, fmt.Sprintf(
			"Password reset requested by %s. Token (valid 1h): %s",
			u.Nickname,
			token,
		))
	}

	return nil
}

func (s *Service) ResetPassword(
	ctx context.Context,
	req ResetPasswordRequest,
) error {
	reset, err := s.resets.GetResetByTokenHash(ctx, core.HashToken(req.Token))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.TokenInvalidError()
		}
		return err
	}

	if !reset.Usable(time.Now().UTC()) {
		return core.TokenExpiredError()
	}

	newHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	err = core.InTx(ctx, s.db.DB, func(tx *sqlx.Tx) error {
		if err := s.resets.MarkResetUsed(ctx, tx, reset.ID); err != nil {
			return err
		}
		return s.users.UpdatePassword(ctx, tx, reset.UserID, newHash, false)
	})
	if err != nil {
		if errors.Is(err, core.ErrTokenRevoked) {
			return core.TokenInvalidError()
		}
		return err
	}

	s.audit.Log(ctx, reset.UserID, "PASSWORD_RESET_COMPLETED", "user", reset.UserID.String(), nil)

	return nil
}

// Logout blacklists the token JTI for the remainder of its lifetime.
func (s *Service) Logout(ctx context.Context, jti string) error {
	if jti == "" {
		return nil
	}
	return s.blacklist.Revoke(ctx, jti, s.jwt.TokenTTL())
}
