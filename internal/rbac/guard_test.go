package rbac_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/learnlingo/learnlingo/internal/auth"
	"github.com/learnlingo/learnlingo/internal/rbac"
	"github.com/learnlingo/learnlingo/internal/roles"
)

func resolved(role roles.Role) auth.State {
	return auth.State{Identity: &auth.Identity{UserID: uuid.New()}, Role: role, RoleKnown: true}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		role roles.Role
		want rbac.Capabilities
	}{
		{roles.Admin, rbac.Capabilities{IsAdmin: true, IsModerator: true, HasAdminAccess: true}},
		{roles.Moderator, rbac.Capabilities{IsModerator: true}},
		{roles.User, rbac.Capabilities{}},
		{0, rbac.Capabilities{}},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, rbac.Evaluate(tt.role))
		})
	}
}

func TestGuardPendingWhileLoading(t *testing.T) {
	g := rbac.NewGuard(nil)
	d := g.Observe(auth.Loading())
	assert.True(t, d.Pending)
	assert.False(t, d.Redirect)
	assert.False(t, d.Allowed)
}

func TestGuardRedirectsOncePerTransition(t *testing.T) {
	fired := 0
	g := rbac.NewGuard(func() { fired++ })

	g.Observe(auth.Loading())
	assert.True(t, g.Observe(auth.State{}).Redirect)
	assert.False(t, g.Observe(auth.State{}).Redirect)
	assert.False(t, g.Observe(auth.State{}).Redirect)
	assert.Equal(t, 1, fired)

	g.Observe(auth.Loading())
	assert.True(t, g.Observe(resolved(roles.User)).Redirect)
	assert.Equal(t, 2, fired)
}

func TestGuardModeratorDenied(t *testing.T) {
	g := rbac.NewGuard(nil)
	d := g.Observe(resolved(roles.Moderator))
	assert.True(t, d.Redirect)
	assert.True(t, d.Capabilities.IsModerator)
	assert.False(t, d.Capabilities.HasAdminAccess)
}

func TestGuardAdminAllowed(t *testing.T) {
	fired := 0
	g := rbac.NewGuard(func() { fired++ })
	g.Observe(auth.Loading())
	d := g.Observe(resolved(roles.Admin))
	assert.True(t, d.Allowed)
	assert.False(t, d.Redirect)
	assert.Zero(t, fired)
}
