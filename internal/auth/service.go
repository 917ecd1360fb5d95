package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/learnlingo/learnlingo/internal/roles"
	"github.com/learnlingo/learnlingo/internal/shared"
)

// sessionEmailKey stores the token email, which profiles do not carry.
const sessionEmailKey = "email"

// Service exchanges access tokens for sessions and resolves session state.
type Service struct {
	repo     Repository
	verifier *TokenVerifier
	now      func() time.Time
}

// NewService constructs the auth service.
func NewService(repo Repository, verifier *TokenVerifier) *Service {
	return &Service{repo: repo, verifier: verifier, now: time.Now}
}

// SignIn verifies the access token and returns the identity it grants.
func (s *Service) SignIn(ctx context.Context, token string) (Identity, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return Identity{}, err
	}
	acc, err := s.repo.FindAccount(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Identity{}, fmt.Errorf("auth: no profile for %s: %w", claims.Subject, shared.ErrInvalidCredentials)
		}
		return Identity{}, err
	}
	if !acc.Active {
		return Identity{}, fmt.Errorf("auth: profile %s inactive: %w", claims.Subject, shared.ErrInvalidCredentials)
	}
	if err := s.repo.TouchLastLogin(ctx, acc.UserID, s.now()); err != nil {
		return Identity{}, err
	}
	return Identity{
		UserID:      acc.UserID,
		Email:       claims.Email,
		DisplayName: acc.DisplayName,
		AvatarURL:   acc.AvatarURL,
	}, nil
}

// Bind attaches the identity to the session.
func (s *Service) Bind(sess *shared.Session, id Identity) {
	sess.SetUser(id.UserID)
	sess.Set(sessionEmailKey, id.Email)
}

// Resolve builds the request state from the session. Anonymous sessions and
// sessions whose profile is gone or deactivated resolve without identity.
func (s *Service) Resolve(ctx context.Context, sess *shared.Session) (State, error) {
	userID, ok := sess.User()
	if !ok {
		return State{}, nil
	}
	acc, err := s.repo.FindAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return State{}, nil
		}
		return State{}, err
	}
	if !acc.Active {
		return State{}, nil
	}
	return State{
		Identity: &Identity{
			UserID:      acc.UserID,
			Email:       sess.Get(sessionEmailKey),
			DisplayName: acc.DisplayName,
			AvatarURL:   acc.AvatarURL,
		},
		Role:      roles.FromRows(acc.Roles),
		RoleKnown: true,
	}, nil
}
