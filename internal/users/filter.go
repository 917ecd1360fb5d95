package users

import (
	"strings"

	"github.com/learnlingo/learnlingo/internal/roles"
)

// Criteria narrows the directory listing. A zero Role matches every role.
type Criteria struct {
	Search string
	Role   roles.Role
}

// ParseCriteria reads the list filter form. "all" and unknown roles disable
// role filtering.
func ParseCriteria(search, role string) Criteria {
	c := Criteria{Search: strings.TrimSpace(search)}
	if r, err := roles.Parse(role); err == nil {
		c.Role = r
	}
	return c
}

// RoleValue is the form value of the selected role filter.
func (c Criteria) RoleValue() string {
	if c.Role == 0 {
		return "all"
	}
	return c.Role.String()
}

// Filter returns the users matching c, preserving order. The search term
// matches display name or user id case-insensitively.
func Filter(users []User, c Criteria) []User {
	term := strings.ToLower(c.Search)
	out := make([]User, 0, len(users))
	for _, u := range users {
		if c.Role != 0 && u.Role != c.Role {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(u.DisplayName), term) &&
			!strings.Contains(strings.ToLower(u.UserID.String()), term) {
			continue
		}
		out = append(out, u)
	}
	return out
}
