package analytics

import "github.com/learnlingo/learnlingo/internal/users"

// Summarize builds the headline cards of the analytics page. Total users is
// the sum of the role distribution and active users is the sum of the growth
// window, so the cards agree with the charts beside them.
func Summarize(list []users.User, growth []GrowthPoint, byRole []RoleSlice) Summary {
	var s Summary
	for _, slice := range byRole {
		s.TotalUsers += slice.Value
	}
	for _, p := range growth {
		s.ActiveUsers += p.Active
	}
	if n := len(growth); n > 0 {
		s.MonthlyGrowth = growth[n-1].Users
		if n > 1 {
			s.GrowthChange = Change(growth[n-2].Users, growth[n-1].Users)
		}
	}
	active := 0
	for _, u := range list {
		if u.IsActive {
			active++
		}
	}
	s.EngagementRate = RoundedPercent(active, len(list))
	return s
}
