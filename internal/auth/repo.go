package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnlingo/learnlingo/internal/shared"
)

// Repository reads accounts for session resolution.
type Repository interface {
	FindAccount(ctx context.Context, userID uuid.UUID) (Account, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// PGRepository implements Repository using pgx.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PGRepository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const findAccountSQL = `
SELECT p.user_id, COALESCE(p.display_name, ''), COALESCE(p.avatar_url, ''), p.is_active,
	COALESCE(array_agg(ur.role::text ORDER BY ur.created_at) FILTER (WHERE ur.role IS NOT NULL), '{}')
FROM profiles p
LEFT JOIN user_roles ur ON ur.user_id = p.user_id
WHERE p.user_id = $1
GROUP BY p.id`

// FindAccount loads the profile and its role rows.
func (r *PGRepository) FindAccount(ctx context.Context, userID uuid.UUID) (Account, error) {
	var acc Account
	err := r.pool.QueryRow(ctx, findAccountSQL, userID).
		Scan(&acc.UserID, &acc.DisplayName, &acc.AvatarURL, &acc.Active, &acc.Roles)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, shared.ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("auth: find account: %w", err)
	}
	return acc, nil
}

// TouchLastLogin stamps the sign-in time.
func (r *PGRepository) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE profiles SET last_login_at = $2 WHERE user_id = $1`, userID, at)
	if err != nil {
		return fmt.Errorf("auth: touch last login: %w", err)
	}
	return nil
}
