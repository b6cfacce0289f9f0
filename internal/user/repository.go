// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/tdfclan/portal/internal/core"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, nickname, discord_tag, email, password_hash, role,
	status, must_change_password, joined_at, created_at, updated_at`

func (r *Repository) Create(
	ctx context.Context,
	q core.DBTX,
	u *User,
) error {
	query := `
		INSERT INTO users (
			id, nickname, discord_tag, email, password_hash, role, status,
			must_change_password, joined_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := q.ExecContext(ctx, query,
		u.ID,
		u.Nickname,
		u.DiscordTag,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.Status,
		u.MustChangePassword,
		u.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateKey
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(
	ctx context.Context,
	q core.DBTX,
	id uuid.UUID,
) (*User, error) {
	var u User
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE id = $1`,
		userColumns,
	)

	if err := q.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &u, nil
}

func (r *Repository) GetByNickname(
	ctx context.Context,
	nickname string,
) (*User, error) {
	var u User
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE nickname = $1`,
		userColumns,
	)

	if err := r.db.GetContext(ctx, &u, query, nickname); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get user by nickname: %w", err)
	}

	return &u, nil
}

func (r *Repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	var u User
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE email = $1`,
		userColumns,
	)

	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &u, nil
}

func (r *Repository) List(
	ctx context.Context,
	filter ListUsersFilter,
) ([]User, int, error) {
	where := []string{"1=1"}
	args := []any{}
	argN := 1

	if filter.Role != "" {
		where = append(where, fmt.Sprintf("role = $%d", argN))
		args = append(args, filter.Role)
		argN++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argN))
		args = append(args, filter.Status)
		argN++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("nickname ILIKE $%d", argN))
		args = append(args, "%"+filter.Search+"%")
		argN++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := fmt.Sprintf(
		`SELECT COUNT(*) FROM users WHERE %s`,
		whereClause,
	)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`,
		userColumns,
		whereClause,
		argN,
		argN+1,
	)
	args = append(
		args,
		filter.PageSize,
		(filter.Page-1)*filter.PageSize,
	)

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]User, error) {
	users := []User{}
	query := fmt.Sprintf(
		`SELECT %s FROM users ORDER BY nickname ASC`,
		userColumns,
	)

	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list all users: %w", err)
	}

	return users, nil
}

func (r *Repository) ListActiveIDs(
	ctx context.Context,
) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	query := `SELECT id FROM users WHERE status = 'ACTIVE'`

	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("list active user ids: %w", err)
	}

	return ids, nil
}

func (r *Repository) UpdateRole(
	ctx context.Context,
	id uuid.UUID,
	role string,
) error {
	return r.updateField(ctx, id, "role", role)
}

func (r *Repository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status string,
) error {
	return r.updateField(ctx, id, "status", status)
}

func (r *Repository) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	discordTag *string,
	email *string,
) error {
	query := `
		UPDATE users
		SET discord_tag = COALESCE($2, discord_tag),
		    email = COALESCE($3, email),
		    updated_at = NOW()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, discordTag, email)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateKey
		}
		return fmt.Errorf("update user profile: %w", err)
	}

	return requireRowAffected(res)
}

func (r *Repository) UpdatePassword(
	ctx context.Context,
	q core.DBTX,
	id uuid.UUID,
	passwordHash string,
	mustChange bool,
) error {
	query := `
		UPDATE users
		SET password_hash = $2,
		    must_change_password = $3,
		    updated_at = NOW()
		WHERE id = $1`

	res, err := q.ExecContext(ctx, query, id, passwordHash, mustChange)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	return requireRowAffected(res)
}

func (r *Repository) updateField(
	ctx context.Context,
	id uuid.UUID,
	field, value string,
) error {
	query := fmt.Sprintf(
		`UPDATE users SET %s = $2, updated_at = NOW() WHERE id = $1`,
		field,
	)

	res, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("update user %s: %w", field, err)
	}

	return requireRowAffected(res)
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Touch sets joined_at for users accepted through recruitment.
func (r *Repository) SetJoinedAt(
	ctx context.Context,
	q core.DBTX,
	id uuid.UUID,
	at time.Time,
) error {
	query := `UPDATE users SET joined_at = $2, updated_at = NOW() WHERE id = $1`

	res, err := q.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("set joined_at: %w", err)
	}

	return requireRowAffected(res)
}
