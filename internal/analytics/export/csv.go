// Package export serialises the analytics report for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/learnlingo/learnlingo/internal/analytics"
)

// WriteReportCSV writes the report as consecutive CSV sections separated by
// blank lines: summary, growth, roles, activity.
func WriteReportCSV(w io.Writer, report analytics.Report) error {
	writer := csv.NewWriter(w)

	sections := [][][]string{
		summaryRecords(report),
		growthRecords(report.Growth),
		roleRecords(report.ByRole),
		activityRecords(report.Activity),
	}
	for i, records := range sections {
		if i > 0 {
			writer.Flush()
			if err := writer.Error(); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := writer.WriteAll(records); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func summaryRecords(report analytics.Report) [][]string {
	s := report.Summary
	return [][]string{
		{"Metric", "Value"},
		{"Generated At", report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00")},
		{"Total Users", strconv.Itoa(s.TotalUsers)},
		{"Active Users", strconv.Itoa(s.ActiveUsers)},
		{"Monthly Growth", strconv.Itoa(s.MonthlyGrowth)},
		{"Growth Change %", formatFloat(s.GrowthChange)},
		{"Engagement Rate %", strconv.Itoa(s.EngagementRate)},
	}
}

func growthRecords(points []analytics.GrowthPoint) [][]string {
	records := [][]string{{"Month", "Users", "Active"}}
	for _, p := range points {
		records = append(records, []string{p.Start.Format("2006-01"), strconv.Itoa(p.Users), strconv.Itoa(p.Active)})
	}
	return records
}

func roleRecords(slices []analytics.RoleSlice) [][]string {
	records := [][]string{{"Role", "Users"}}
	for _, s := range slices {
		records = append(records, []string{s.Name, strconv.Itoa(s.Value)})
	}
	return records
}

func activityRecords(points []analytics.ActivityPoint) [][]string {
	records := [][]string{{"Date", "Logins", "Registrations"}}
	for _, p := range points {
		records = append(records, []string{p.Date.Format("2006-01-02"), strconv.Itoa(p.Logins), strconv.Itoa(p.Registrations)})
	}
	return records
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
