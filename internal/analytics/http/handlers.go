// Package analytichttp serves the admin dashboard and analytics pages.
package analytichttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/learnlingo/learnlingo/internal/analytics"
	"github.com/learnlingo/learnlingo/internal/analytics/export"
	"github.com/learnlingo/learnlingo/internal/analytics/svg"
	"github.com/learnlingo/learnlingo/internal/auth"
	"github.com/learnlingo/learnlingo/internal/shared"
	"github.com/learnlingo/learnlingo/internal/users"
	"github.com/learnlingo/learnlingo/internal/view"
)

const requestTimeout = 5 * time.Second

// Service defines the data contract used by the handler.
type Service interface {
	Dashboard(ctx context.Context) (analytics.Dashboard, error)
	Report(ctx context.Context) (analytics.Report, error)
}

// Handler coordinates HTTP requests for the dashboard and analytics pages.
type Handler struct {
	logger    *slog.Logger
	service   Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	csvPool   sync.Pool
}

// NewHandler constructs the analytics HTTP handler.
func NewHandler(logger *slog.Logger, service Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{logger: logger, service: service, templates: templates, csrf: csrf}
	h.csvPool.New = func() any { return new(bytes.Buffer) }
	return h
}

// DashboardViewModel is rendered by the dashboard page.
type DashboardViewModel struct {
	Dashboard analytics.Dashboard
	Error     string
}

// ReportViewModel is rendered by the analytics page.
type ReportViewModel struct {
	Report      analytics.Report
	GrowthSVG   template.HTML
	RolesSVG    template.HTML
	ActivitySVG template.HTML
	Error       string
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	dash, err := h.service.Dashboard(ctx)
	if err != nil {
		h.logError("load dashboard", err)
		h.render(w, r, "pages/admin/dashboard.html", "Admin Dashboard", DashboardViewModel{Error: loadFailureMessage(err)}, http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/admin/dashboard.html", "Admin Dashboard", DashboardViewModel{Dashboard: dash}, http.StatusOK)
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Report(ctx)
	if err != nil {
		h.logError("load analytics", err)
		h.render(w, r, "pages/admin/analytics.html", "Analytics", ReportViewModel{Error: loadFailureMessage(err)}, http.StatusInternalServerError)
		return
	}
	vm, err := buildReportViewModel(report)
	if err != nil {
		h.handleServerError(w, "render charts", err)
		return
	}
	h.render(w, r, "pages/admin/analytics.html", "Analytics", vm, http.StatusOK)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Report(ctx)
	if err != nil {
		h.handleServerError(w, "load analytics", err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteReportCSV(buf, report); err != nil {
		h.handleServerError(w, "write report csv", err)
		return
	}

	filename := fmt.Sprintf("learnlingo-analytics-%s.csv", report.GeneratedAt.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func buildReportViewModel(report analytics.Report) (ReportViewModel, error) {
	vm := ReportViewModel{Report: report}

	labels := make([]string, 0, len(report.Growth))
	total := make([]float64, 0, len(report.Growth))
	active := make([]float64, 0, len(report.Growth))
	for _, p := range report.Growth {
		labels = append(labels, p.Month)
		total = append(total, float64(p.Users))
		active = append(active, float64(p.Active))
	}
	growthSVG, err := svg.Line(svg.DefaultWidth, svg.DefaultHeight, []svg.Series{
		{Label: "Users", Values: total, Color: "#2563eb"},
		{Label: "Active", Values: active, Color: "#10b981"},
	}, labels, svg.LineOpts{
		Title:       "User Growth",
		Description: "New and active users over the last six months",
		FillColor:   "rgba(37,99,235,0.12)",
		ShowDots:    true,
	})
	if err != nil {
		return ReportViewModel{}, err
	}
	vm.GrowthSVG = growthSVG

	if len(report.ByRole) > 0 {
		slices := make([]svg.Slice, 0, len(report.ByRole))
		for _, s := range report.ByRole {
			slices = append(slices, svg.Slice{Label: s.Name, Value: float64(s.Value), Color: s.Color})
		}
		rolesSVG, err := svg.Donut(svg.DefaultDonut, slices, svg.DonutOpts{
			Title:       "Users by Role",
			Description: "Distribution of user roles",
		})
		if err != nil {
			return ReportViewModel{}, err
		}
		vm.RolesSVG = rolesSVG
	}

	dayLabels := make([]string, 0, len(report.Activity))
	logins := make([]float64, 0, len(report.Activity))
	registrations := make([]float64, 0, len(report.Activity))
	for _, p := range report.Activity {
		dayLabels = append(dayLabels, p.Label)
		logins = append(logins, float64(p.Logins))
		registrations = append(registrations, float64(p.Registrations))
	}
	activitySVG, err := svg.Bars(svg.DefaultWidth, svg.DefaultHeight, []svg.Series{
		{Label: "Logins", Values: logins, Color: "#2563eb"},
		{Label: "Registrations", Values: registrations, Color: "#f59e0b"},
	}, dayLabels, svg.BarOpts{
		Title:       "Activity Trend",
		Description: "Daily sign-ins and registrations over the last week",
	})
	if err != nil {
		return ReportViewModel{}, err
	}
	vm.ActivitySVG = activitySVG
	return vm, nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Viewer:      auth.StateFromContext(r.Context()).Viewer(),
		Data:        data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logError("render template", err)
	}
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	h.logger.Error(context, slog.Any("error", err))
}

func loadFailureMessage(err error) string {
	if errors.Is(err, users.ErrDirectoryTooLarge) {
		return "The user directory is too large to aggregate here"
	}
	return "Failed to load analytics data"
}
