package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnlingo/learnlingo/internal/analytics"
	"github.com/learnlingo/learnlingo/internal/roles"
)

func TestWriteReportCSV(t *testing.T) {
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	report := analytics.Report{
		Growth: []analytics.GrowthPoint{
			{Month: "Feb", Start: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), Users: 2, Active: 1},
			{Month: "Mar", Start: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), Users: 3, Active: 3},
		},
		ByRole: []analytics.RoleSlice{{Role: roles.User, Name: "User", Value: 4}, {Role: roles.Admin, Name: "Admin", Value: 1}},
		Activity: []analytics.ActivityPoint{
			{Date: now, Label: "Wed", Logins: 7, Registrations: 2},
		},
		Summary:     analytics.Summary{TotalUsers: 5, ActiveUsers: 4, MonthlyGrowth: 3, GrowthChange: 50, EngagementRate: 80},
		GeneratedAt: now,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, report))

	sections := strings.Split(strings.TrimSpace(buf.String()), "\n\n")
	require.Len(t, sections, 4)

	summary, err := csv.NewReader(strings.NewReader(sections[0])).ReadAll()
	require.NoError(t, err)
	assert.Contains(t, summary, []string{"Total Users", "5"})
	assert.Contains(t, summary, []string{"Growth Change %", "50.0"})

	growth, err := csv.NewReader(strings.NewReader(sections[1])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03", "3", "3"}, growth[2])

	assert.Contains(t, sections[2], "Admin,1")
	assert.Contains(t, sections[3], "2024-03-20,7,2")
}
