package auth

import (
	"github.com/google/uuid"

	"github.com/learnlingo/learnlingo/internal/roles"
	"github.com/learnlingo/learnlingo/internal/view"
)

// Identity is the authenticated account behind a session.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
	AvatarURL   string
}

// State is the session state handed to every admin view. Loading is true
// until identity and role have been resolved for the request.
type State struct {
	Identity  *Identity
	Role      roles.Role
	RoleKnown bool
	Loading   bool
}

// Loading returns the state observed before resolution.
func Loading() State {
	return State{Loading: true}
}

// Authenticated reports whether the state carries an identity.
func (s State) Authenticated() bool {
	return !s.Loading && s.Identity != nil
}

// Viewer converts the state for the page header.
func (s State) Viewer() *view.Viewer {
	if s.Identity == nil {
		return nil
	}
	name := s.Identity.DisplayName
	if name == "" {
		name = s.Identity.Email
	}
	v := &view.Viewer{Name: name, Email: s.Identity.Email, AvatarURL: s.Identity.AvatarURL}
	if s.RoleKnown {
		v.Role = s.Role.DisplayName()
	}
	return v
}

// Account is the profile data consulted at sign-in and on every request.
type Account struct {
	UserID      uuid.UUID
	DisplayName string
	AvatarURL   string
	Active      bool
	Roles       []string
}
