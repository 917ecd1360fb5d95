package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnlingo/learnlingo/internal/auth"
	"github.com/learnlingo/learnlingo/internal/roles"
	"github.com/learnlingo/learnlingo/internal/shared"
)

const testSecret = "jwt-test-secret"

type stubRepo struct {
	accounts map[uuid.UUID]auth.Account
	touched  []uuid.UUID
	err      error
}

func (s *stubRepo) FindAccount(_ context.Context, userID uuid.UUID) (auth.Account, error) {
	if s.err != nil {
		return auth.Account{}, s.err
	}
	acc, ok := s.accounts[userID]
	if !ok {
		return auth.Account{}, shared.ErrNotFound
	}
	return acc, nil
}

func (s *stubRepo) TouchLastLogin(_ context.Context, userID uuid.UUID, _ time.Time) error {
	s.touched = append(s.touched, userID)
	return nil
}

func signToken(t *testing.T, sub, email string, exp time.Time) string {
	t.Helper()
	claims := auth.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
			Audience:  jwt.ClaimStrings{"authenticated"},
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	verifier := auth.NewTokenVerifier(testSecret, "authenticated")
	id := uuid.New()

	_, err := verifier.Verify("")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = verifier.Verify(signToken(t, id.String(), "a@b.c", time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = verifier.Verify(signToken(t, "not-a-uuid", "a@b.c", time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	other := auth.NewTokenVerifier("another-secret", "")
	_, err = other.Verify(signToken(t, id.String(), "a@b.c", time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	wrongAud := auth.NewTokenVerifier(testSecret, "service_role")
	_, err = wrongAud.Verify(signToken(t, id.String(), "a@b.c", time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	claims, err := verifier.Verify(signToken(t, id.String(), "a@b.c", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID())
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestSignIn(t *testing.T) {
	active := uuid.New()
	inactive := uuid.New()
	repo := &stubRepo{accounts: map[uuid.UUID]auth.Account{
		active:   {UserID: active, DisplayName: "Ana", Active: true, Roles: []string{"admin"}},
		inactive: {UserID: inactive, Active: false},
	}}
	svc := auth.NewService(repo, auth.NewTokenVerifier(testSecret, ""))
	exp := time.Now().Add(time.Hour)

	identity, err := svc.SignIn(context.Background(), signToken(t, active.String(), "ana@example.com", exp))
	require.NoError(t, err)
	assert.Equal(t, "Ana", identity.DisplayName)
	assert.Equal(t, "ana@example.com", identity.Email)
	assert.Equal(t, []uuid.UUID{active}, repo.touched)

	_, err = svc.SignIn(context.Background(), signToken(t, inactive.String(), "x@example.com", exp))
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.SignIn(context.Background(), signToken(t, uuid.NewString(), "y@example.com", exp))
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestResolve(t *testing.T) {
	admin := uuid.New()
	plain := uuid.New()
	repo := &stubRepo{accounts: map[uuid.UUID]auth.Account{
		admin: {UserID: admin, DisplayName: "Root", Active: true, Roles: []string{"admin"}},
		plain: {UserID: plain, Active: true},
	}}
	svc := auth.NewService(repo, auth.NewTokenVerifier(testSecret, ""))

	t.Run("anonymous", func(t *testing.T) {
		state, err := svc.Resolve(context.Background(), &shared.Session{})
		require.NoError(t, err)
		assert.False(t, state.Loading)
		assert.Nil(t, state.Identity)
	})

	t.Run("admin", func(t *testing.T) {
		sess := &shared.Session{}
		svc.Bind(sess, auth.Identity{UserID: admin, Email: "root@example.com"})
		state, err := svc.Resolve(context.Background(), sess)
		require.NoError(t, err)
		require.NotNil(t, state.Identity)
		assert.Equal(t, roles.Admin, state.Role)
		assert.True(t, state.RoleKnown)
		assert.Equal(t, "root@example.com", state.Identity.Email)
	})

	t.Run("missing role row defaults to user", func(t *testing.T) {
		sess := &shared.Session{}
		sess.SetUser(plain)
		state, err := svc.Resolve(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, roles.User, state.Role)
	})

	t.Run("deleted profile", func(t *testing.T) {
		sess := &shared.Session{}
		sess.SetUser(uuid.New())
		state, err := svc.Resolve(context.Background(), sess)
		require.NoError(t, err)
		assert.False(t, state.Authenticated())
	})
}

func TestStateFromContextDefaultsToLoading(t *testing.T) {
	assert.True(t, auth.StateFromContext(context.Background()).Loading)
	ctx := auth.ContextWithState(context.Background(), auth.State{Role: roles.Moderator, RoleKnown: true})
	assert.Equal(t, roles.Moderator, auth.StateFromContext(ctx).Role)
}
