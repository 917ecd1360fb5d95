package analytics

import (
	"sort"
	"time"

	"github.com/learnlingo/learnlingo/internal/roles"
	"github.com/learnlingo/learnlingo/internal/users"
)

// ComputeStats counts the directory. New users are those created at or after
// local midnight of now in loc.
func ComputeStats(list []users.User, now time.Time, loc *time.Location) DashboardStats {
	midnight := startOfDay(now, loc)
	stats := DashboardStats{TotalUsers: len(list)}
	for _, u := range list {
		if u.IsActive {
			stats.ActiveUsers++
		}
		if !u.CreatedAt.Before(midnight) {
			stats.NewUsersToday++
		}
		if u.Role == roles.Admin {
			stats.AdminUsers++
		}
	}
	return stats
}

// RecentUsers returns the n newest users. Ties keep their input order and the
// input slice is left untouched.
func RecentUsers(list []users.User, n int) []users.User {
	if n <= 0 {
		return nil
	}
	sorted := make([]users.User, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
