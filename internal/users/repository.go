package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnlingo/learnlingo/internal/platform/db"
	"github.com/learnlingo/learnlingo/internal/roles"
	"github.com/learnlingo/learnlingo/internal/shared"
)

const profileColumns = `
	p.id, p.user_id,
	COALESCE(p.display_name, ''), COALESCE(p.avatar_url, ''), COALESCE(p.bio, ''),
	p.is_active, p.email_verified, p.last_login_at, p.created_at, p.updated_at,
	COALESCE(array_agg(ur.role::text ORDER BY ur.created_at) FILTER (WHERE ur.role IS NOT NULL), '{}')`

const listProfilesSQL = `SELECT` + profileColumns + `
FROM profiles p
LEFT JOIN user_roles ur ON ur.user_id = p.user_id
GROUP BY p.id
ORDER BY p.created_at DESC
LIMIT $1`

const getProfileSQL = `SELECT` + profileColumns + `
FROM profiles p
LEFT JOIN user_roles ur ON ur.user_id = p.user_id
WHERE p.user_id = $1
GROUP BY p.id`

// lockProfileSQL serializes role writes per user. Under READ COMMITTED the
// following statement takes a fresh snapshot, so it sees role rows committed
// by a writer that held the lock before.
const lockProfileSQL = `SELECT 1 FROM profiles WHERE user_id = $1 FOR UPDATE`

// setRoleSQL replaces every role row of the user with the given role: rows for
// other roles are deleted and the target row is inserted unless it already
// exists. It must run after lockProfileSQL in the same transaction.
const setRoleSQL = `
WITH cleared AS (
	DELETE FROM user_roles
	WHERE user_id = $1 AND role <> $2::app_role
)
INSERT INTO user_roles (user_id, role)
VALUES ($1, $2::app_role)
ON CONFLICT (user_id, role) DO NOTHING`

const setActiveSQL = `UPDATE profiles SET is_active = $2, updated_at = NOW() WHERE user_id = $1`

const updateProfileSQL = `
UPDATE profiles
SET display_name = NULLIF($2, ''), bio = NULLIF($3, ''), is_active = $4, updated_at = NOW()
WHERE user_id = $1`

const touchLastLoginSQL = `UPDATE profiles SET last_login_at = $2 WHERE user_id = $1`

// Repository is the persistence port of the directory.
type Repository interface {
	ListProfiles(ctx context.Context, limit int) ([]ProfileRecord, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (ProfileRecord, error)
	SetActive(ctx context.Context, userID uuid.UUID, active bool) error
	TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	TxRepository
}

// TxRepository exposes the writes that may share a transaction.
type TxRepository interface {
	SetRole(ctx context.Context, userID uuid.UUID, role roles.Role) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, fields ProfileFields) error
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGRepository implements Repository on the backend's PostgreSQL schema.
type PGRepository struct {
	pool *pgxpool.Pool
	writer
}

type writer struct {
	q querier
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool, writer: writer{q: pool}}
}

// ListProfiles fetches up to limit profiles with their role rows, newest first.
func (r *PGRepository) ListProfiles(ctx context.Context, limit int) ([]ProfileRecord, error) {
	rows, err := r.pool.Query(ctx, listProfilesSQL, limit)
	if err != nil {
		return nil, mapError("list profiles", err)
	}
	defer rows.Close()

	var records []ProfileRecord
	for rows.Next() {
		rec, err := scanProfile(rows)
		if err != nil {
			return nil, mapError("scan profile", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list profiles", err)
	}
	return records, nil
}

// GetProfile fetches one profile by its auth user id.
func (r *PGRepository) GetProfile(ctx context.Context, userID uuid.UUID) (ProfileRecord, error) {
	rec, err := scanProfile(r.pool.QueryRow(ctx, getProfileSQL, userID))
	if err != nil {
		return ProfileRecord{}, mapError("get profile", err)
	}
	return rec, nil
}

// SetActive updates the activation flag.
func (r *PGRepository) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, setActiveSQL, userID, active)
	if err != nil {
		return mapError("set active", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("users: set active: %w", shared.ErrNotFound)
	}
	return nil
}

// TouchLastLogin records a successful sign-in.
func (r *PGRepository) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	if _, err := r.pool.Exec(ctx, touchLastLoginSQL, userID, at); err != nil {
		return mapError("touch last login", err)
	}
	return nil
}

// WithTx runs fn with writes bound to a single transaction.
func (r *PGRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, writer{q: tx})
	})
}

// SetRole makes role the only role row of the user in its own transaction.
func (r *PGRepository) SetRole(ctx context.Context, userID uuid.UUID, role roles.Role) error {
	return r.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.SetRole(ctx, userID, role)
	})
}

// SetRole locks the profile, then makes role the only role row of the user.
func (w writer) SetRole(ctx context.Context, userID uuid.UUID, role roles.Role) error {
	if !role.Valid() {
		return fmt.Errorf("users: set role %s: %w", role, shared.ErrValidation)
	}
	var locked int
	if err := w.q.QueryRow(ctx, lockProfileSQL, userID).Scan(&locked); err != nil {
		return mapError("set role", err)
	}
	if _, err := w.q.Exec(ctx, setRoleSQL, userID, role.String()); err != nil {
		return mapError("set role", err)
	}
	return nil
}

// UpdateProfile writes display name, bio and activation flag.
func (w writer) UpdateProfile(ctx context.Context, userID uuid.UUID, fields ProfileFields) error {
	tag, err := w.q.Exec(ctx, updateProfileSQL, userID, fields.DisplayName, fields.Bio, fields.IsActive)
	if err != nil {
		return mapError("update profile", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("users: update profile: %w", shared.ErrNotFound)
	}
	return nil
}

func scanProfile(row pgx.Row) (ProfileRecord, error) {
	var rec ProfileRecord
	err := row.Scan(
		&rec.ID, &rec.UserID,
		&rec.DisplayName, &rec.AvatarURL, &rec.Bio,
		&rec.IsActive, &rec.EmailVerified, &rec.LastLoginAt, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.Roles,
	)
	return rec, err
}

// mapError classifies backend failures so callers can tell missing rows and
// policy rejections apart from transient faults.
func mapError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("users: %s: %w", op, shared.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return fmt.Errorf("users: %s: %w: %w", op, shared.ErrNotFound, err)
		case "42501":
			return fmt.Errorf("users: %s: %w: %w", op, shared.ErrForbidden, err)
		case "23514", "23502", "22P02":
			return fmt.Errorf("users: %s: %w: %w", op, shared.ErrValidation, err)
		}
	}
	return fmt.Errorf("users: %s: %w", op, err)
}

var _ Repository = (*PGRepository)(nil)
