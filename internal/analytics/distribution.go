package analytics

import (
	"github.com/learnlingo/learnlingo/internal/roles"
	"github.com/learnlingo/learnlingo/internal/users"
)

// RolePalette colours role slices in order of first appearance.
var RolePalette = []string{"#2563eb", "#7c3aed", "#f59e0b", "#94a3b8"}

// RoleDistribution counts users per derived role. Entries follow the order in
// which each role first appears in list; the counts add up to len(list).
func RoleDistribution(list []users.User) []RoleSlice {
	var slices []RoleSlice
	index := make(map[roles.Role]int)
	for _, u := range list {
		i, ok := index[u.Role]
		if !ok {
			i = len(slices)
			index[u.Role] = i
			slices = append(slices, RoleSlice{
				Role:  u.Role,
				Name:  u.Role.DisplayName(),
				Color: RolePalette[i%len(RolePalette)],
			})
		}
		slices[i].Value++
	}
	return slices
}
