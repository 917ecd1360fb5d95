package analytics

import (
	"time"

	"github.com/learnlingo/learnlingo/internal/users"
)

// GrowthSeries buckets registrations into the last months calendar months,
// oldest first, ending with the month of now. A user lands in the bucket whose
// year and month match its creation time in loc.
func GrowthSeries(list []users.User, now time.Time, loc *time.Location, months int) []GrowthPoint {
	if months <= 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	points := make([]GrowthPoint, months)
	index := make(map[monthKey]int, months)
	for i := range points {
		// time.Date normalises month underflow into the previous year.
		start := time.Date(local.Year(), local.Month()-time.Month(months-1-i), 1, 0, 0, 0, 0, loc)
		points[i] = GrowthPoint{Month: start.Format("Jan"), Start: start}
		index[monthKey{start.Year(), start.Month()}] = i
	}
	for _, u := range list {
		created := u.CreatedAt.In(loc)
		i, ok := index[monthKey{created.Year(), created.Month()}]
		if !ok {
			continue
		}
		points[i].Users++
		if u.IsActive {
			points[i].Active++
		}
	}
	return points
}

type monthKey struct {
	year  int
	month time.Month
}
