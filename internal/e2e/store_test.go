package e2e

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/learnlingo/learnlingo/internal/auth"
	"github.com/learnlingo/learnlingo/internal/roles"
	"github.com/learnlingo/learnlingo/internal/shared"
	"github.com/learnlingo/learnlingo/internal/users"
)

// store plays the backend for both the auth and the users repositories.
type store struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]users.ProfileRecord
}

func newStore(records ...users.ProfileRecord) *store {
	s := &store{profiles: make(map[uuid.UUID]users.ProfileRecord)}
	for _, rec := range records {
		s.profiles[rec.UserID] = rec
	}
	return s
}

func (s *store) record(id uuid.UUID) users.ProfileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[id]
}

func (s *store) FindAccount(_ context.Context, userID uuid.UUID) (auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.profiles[userID]
	if !ok {
		return auth.Account{}, shared.ErrNotFound
	}
	return auth.Account{
		UserID:      rec.UserID,
		DisplayName: rec.DisplayName,
		AvatarURL:   rec.AvatarURL,
		Active:      rec.IsActive,
		Roles:       append([]string(nil), rec.Roles...),
	}, nil
}

func (s *store) TouchLastLogin(_ context.Context, userID uuid.UUID, at time.Time) error {
	return s.update(userID, func(rec *users.ProfileRecord) { rec.LastLoginAt = &at })
}

func (s *store) ListProfiles(_ context.Context, limit int) ([]users.ProfileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]users.ProfileRecord, 0, len(s.profiles))
	for _, rec := range s.profiles {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *store) GetProfile(_ context.Context, userID uuid.UUID) (users.ProfileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.profiles[userID]
	if !ok {
		return users.ProfileRecord{}, shared.ErrNotFound
	}
	return rec, nil
}

func (s *store) SetActive(_ context.Context, userID uuid.UUID, active bool) error {
	return s.update(userID, func(rec *users.ProfileRecord) { rec.IsActive = active })
}

func (s *store) SetRole(_ context.Context, userID uuid.UUID, role roles.Role) error {
	return s.update(userID, func(rec *users.ProfileRecord) { rec.Roles = []string{role.String()} })
}

func (s *store) UpdateProfile(_ context.Context, userID uuid.UUID, fields users.ProfileFields) error {
	return s.update(userID, func(rec *users.ProfileRecord) {
		rec.DisplayName = fields.DisplayName
		rec.Bio = fields.Bio
		rec.IsActive = fields.IsActive
	})
}

func (s *store) WithTx(ctx context.Context, fn func(context.Context, users.TxRepository) error) error {
	return fn(ctx, s)
}

func (s *store) update(userID uuid.UUID, fn func(*users.ProfileRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.profiles[userID]
	if !ok {
		return shared.ErrNotFound
	}
	fn(&rec)
	rec.UpdatedAt = time.Now()
	s.profiles[userID] = rec
	return nil
}
