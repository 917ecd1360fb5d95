package analytics

import (
	"time"

	"github.com/learnlingo/learnlingo/internal/users"
)

// ActivityTrend reports, for each of the last days local days ending today,
// how many users registered and how many last signed in on that day.
func ActivityTrend(list []users.User, now time.Time, loc *time.Location, days int) []ActivityPoint {
	if days <= 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	today := startOfDay(now, loc)
	points := make([]ActivityPoint, days)
	index := make(map[dayKey]int, days)
	for i := range points {
		day := today.AddDate(0, 0, i-(days-1))
		points[i] = ActivityPoint{Date: day, Label: day.Format("Mon")}
		index[keyOf(day)] = i
	}
	for _, u := range list {
		if i, ok := index[keyOf(u.CreatedAt.In(loc))]; ok {
			points[i].Registrations++
		}
		if u.LastLoginAt != nil {
			if i, ok := index[keyOf(u.LastLoginAt.In(loc))]; ok {
				points[i].Logins++
			}
		}
	}
	return points
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	return dayKey{t.Year(), t.Month(), t.Day()}
}
