// Package rbac derives capabilities from roles and guards the admin console.
package rbac

import "github.com/learnlingo/learnlingo/internal/roles"

// Capabilities are the boolean checks views use to gate features.
type Capabilities struct {
	IsAdmin        bool
	IsModerator    bool
	HasAdminAccess bool
}

// Evaluate derives capabilities from a role. Admins count as moderators;
// only admins reach the console.
func Evaluate(role roles.Role) Capabilities {
	isAdmin := role == roles.Admin
	return Capabilities{
		IsAdmin:        isAdmin,
		IsModerator:    role == roles.Moderator || isAdmin,
		HasAdminAccess: isAdmin,
	}
}
