// Package roles defines the closed set of roles a LearnLingo account can hold.
package roles

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is one of User, Moderator or Admin. The zero value is not a valid role.
type Role uint8

const (
	User Role = iota + 1
	Moderator
	Admin
)

// Default is assumed for accounts without a role row.
const Default = User

// All lists every role, lowest privilege first.
func All() []Role {
	return []Role{User, Moderator, Admin}
}

// Parse converts the stored role value. Matching ignores case and surrounding space.
func Parse(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "user":
		return User, nil
	case "moderator":
		return Moderator, nil
	case "admin":
		return Admin, nil
	default:
		return 0, fmt.Errorf("roles: unknown role %q", raw)
	}
}

// FromRows derives the effective role from joined role rows: the first row
// that parses wins, no parsable row means Default.
func FromRows(rows []string) Role {
	for _, raw := range rows {
		if r, err := Parse(raw); err == nil {
			return r
		}
	}
	return Default
}

// String returns the value stored in user_roles.role.
func (r Role) String() string {
	switch r {
	case User:
		return "user"
	case Moderator:
		return "moderator"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case User, Moderator, Admin:
		return true
	default:
		return false
	}
}

// DisplayName is the capitalised label used in tables and charts. A Caser
// keeps state between calls, so each call builds its own.
func (r Role) DisplayName() string {
	return cases.Title(language.English).String(r.String())
}

// BadgeClass selects the badge style for the role.
func (r Role) BadgeClass() string {
	switch r {
	case Admin:
		return "badge-danger"
	case Moderator:
		return "badge-warning"
	case User:
		return "badge-secondary"
	default:
		return "badge-muted"
	}
}
