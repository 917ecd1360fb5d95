// Package analytics derives dashboard counters and chart series from the user
// directory. Every function here is pure over its inputs and a clock, and the
// results are recomputed on every request.
package analytics

import (
	"time"

	"github.com/learnlingo/learnlingo/internal/roles"
	"github.com/learnlingo/learnlingo/internal/users"
)

const (
	// RecentCount is the number of newest users shown on the dashboard.
	RecentCount = 5
	// GrowthMonths is the width of the growth window.
	GrowthMonths = 6
	// ActivityDays is the width of the activity window.
	ActivityDays = 7
)

// DashboardStats are the four dashboard counters.
type DashboardStats struct {
	TotalUsers    int
	ActiveUsers   int
	NewUsersToday int
	AdminUsers    int
}

// GrowthPoint is one calendar month of registrations.
type GrowthPoint struct {
	Month  string
	Start  time.Time
	Users  int
	Active int
}

// RoleSlice is the head count of one role.
type RoleSlice struct {
	Role  roles.Role
	Name  string
	Value int
	Color string
}

// ActivityPoint is one day of sign-ins and registrations.
type ActivityPoint struct {
	Date          time.Time
	Label         string
	Logins        int
	Registrations int
}

// Summary feeds the analytics headline cards.
type Summary struct {
	TotalUsers     int
	ActiveUsers    int
	MonthlyGrowth  int
	GrowthChange   float64
	EngagementRate int
}

// HealthStatus is the outcome of one dependency probe.
type HealthStatus struct {
	Name    string
	Healthy bool
	Detail  string
}

// Dashboard is the assembled admin dashboard.
type Dashboard struct {
	Stats         DashboardStats
	ActivePercent int
	Recent        []users.User
	Health        []HealthStatus
	GeneratedAt   time.Time
}

// Report is the assembled analytics page.
type Report struct {
	Growth      []GrowthPoint
	ByRole      []RoleSlice
	Activity    []ActivityPoint
	Summary     Summary
	GeneratedAt time.Time
}
