package users_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/learnlingo/learnlingo/internal/roles"
	"github.com/learnlingo/learnlingo/internal/shared"
	"github.com/learnlingo/learnlingo/internal/users"
)

// memoryRepo keeps profiles in memory. WithTx snapshots state and restores it
// when fn fails.
type memoryRepo struct {
	profiles   map[uuid.UUID]users.ProfileRecord
	listErr    error
	setRoleErr error
	lastLimit  int
}

func newMemoryRepo(records ...users.ProfileRecord) *memoryRepo {
	repo := &memoryRepo{profiles: make(map[uuid.UUID]users.ProfileRecord)}
	for _, rec := range records {
		repo.profiles[rec.UserID] = rec
	}
	return repo
}

func (m *memoryRepo) ListProfiles(_ context.Context, limit int) ([]users.ProfileRecord, error) {
	m.lastLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]users.ProfileRecord, 0, len(m.profiles))
	for _, rec := range m.profiles {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) GetProfile(_ context.Context, userID uuid.UUID) (users.ProfileRecord, error) {
	rec, ok := m.profiles[userID]
	if !ok {
		return users.ProfileRecord{}, shared.ErrNotFound
	}
	return rec, nil
}

func (m *memoryRepo) SetActive(_ context.Context, userID uuid.UUID, active bool) error {
	rec, ok := m.profiles[userID]
	if !ok {
		return shared.ErrNotFound
	}
	rec.IsActive = active
	m.profiles[userID] = rec
	return nil
}

func (m *memoryRepo) TouchLastLogin(_ context.Context, userID uuid.UUID, at time.Time) error {
	rec, ok := m.profiles[userID]
	if !ok {
		return shared.ErrNotFound
	}
	rec.LastLoginAt = &at
	m.profiles[userID] = rec
	return nil
}

func (m *memoryRepo) SetRole(_ context.Context, userID uuid.UUID, role roles.Role) error {
	if m.setRoleErr != nil {
		return m.setRoleErr
	}
	rec, ok := m.profiles[userID]
	if !ok {
		return shared.ErrNotFound
	}
	rec.Roles = []string{role.String()}
	m.profiles[userID] = rec
	return nil
}

func (m *memoryRepo) UpdateProfile(_ context.Context, userID uuid.UUID, fields users.ProfileFields) error {
	rec, ok := m.profiles[userID]
	if !ok {
		return shared.ErrNotFound
	}
	rec.DisplayName = fields.DisplayName
	rec.Bio = fields.Bio
	rec.IsActive = fields.IsActive
	m.profiles[userID] = rec
	return nil
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, users.TxRepository) error) error {
	snapshot := make(map[uuid.UUID]users.ProfileRecord, len(m.profiles))
	for k, v := range m.profiles {
		v.Roles = append([]string(nil), v.Roles...)
		snapshot[k] = v
	}
	if err := fn(ctx, m); err != nil {
		m.profiles = snapshot
		return err
	}
	return nil
}

type mutationRecorder struct {
	calls []string
}

func (r *mutationRecorder) ObserveMutation(op, result string) {
	r.calls = append(r.calls, op+":"+result)
}

func profile(name string, created time.Time, active bool, roleRows ...string) users.ProfileRecord {
	return users.ProfileRecord{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		DisplayName: name,
		IsActive:    active,
		CreatedAt:   created,
		UpdatedAt:   created,
		Roles:       roleRows,
	}
}
