package analytics

import "math"

// Percent returns part as a percentage of total, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// RoundedPercent is Percent rounded half away from zero for display.
func RoundedPercent(part, total int) int {
	return int(math.Round(Percent(part, total)))
}

// Change returns the relative change from previous to current in percent.
// A change from zero is reported as 0.
func Change(previous, current int) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}
