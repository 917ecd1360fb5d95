package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/learnlingo/learnlingo/internal/users"
)

const healthTimeout = 2 * time.Second

// Directory loads the full user directory.
type Directory interface {
	Load(ctx context.Context) ([]users.User, error)
}

// HealthCheck probes one backing dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// ServiceOptions configures the analytics service.
type ServiceOptions struct {
	Location *time.Location
	Now      func() time.Time
	Checks   []HealthCheck
}

// Service assembles dashboard and report views from one directory fetch.
type Service struct {
	directory Directory
	loc       *time.Location
	now       func() time.Time
	checks    []HealthCheck
}

// NewService wires the directory with a clock and the dashboard health checks.
func NewService(directory Directory, opts ServiceOptions) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{directory: directory, loc: opts.Location, now: opts.Now, checks: opts.Checks}
}

// Dashboard loads the directory and assembles the admin dashboard.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	list, err := s.directory.Load(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("analytics: dashboard: %w", err)
	}
	now := s.now()
	stats := ComputeStats(list, now, s.loc)
	return Dashboard{
		Stats:         stats,
		ActivePercent: RoundedPercent(stats.ActiveUsers, stats.TotalUsers),
		Recent:        RecentUsers(list, RecentCount),
		Health:        s.Health(ctx),
		GeneratedAt:   now,
	}, nil
}

// Report loads the directory and assembles the analytics page.
func (s *Service) Report(ctx context.Context) (Report, error) {
	list, err := s.directory.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("analytics: report: %w", err)
	}
	now := s.now()
	growth := GrowthSeries(list, now, s.loc, GrowthMonths)
	byRole := RoleDistribution(list)
	return Report{
		Growth:      growth,
		ByRole:      byRole,
		Activity:    ActivityTrend(list, now, s.loc, ActivityDays),
		Summary:     Summarize(list, growth, byRole),
		GeneratedAt: now,
	}, nil
}

// Health runs every configured check.
func (s *Service) Health(ctx context.Context) []HealthStatus {
	out := make([]HealthStatus, 0, len(s.checks))
	for _, c := range s.checks {
		checkCtx, cancel := context.WithTimeout(ctx, healthTimeout)
		err := c.Check(checkCtx)
		cancel()
		status := HealthStatus{Name: c.Name, Healthy: err == nil, Detail: "Healthy"}
		if err != nil {
			status.Detail = "Unavailable"
		}
		out = append(out, status)
	}
	return out
}
