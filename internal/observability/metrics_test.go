package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/admin/users")
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	assert.Contains(t, body, `learnlingo_http_requests_total{code="418",route="/admin/users"} 1`)
	assert.Contains(t, body, `learnlingo_http_request_duration_seconds_bucket{route="/admin/users"`)
}

func TestObserveMutation(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveMutation("change_role", "ok")
	metrics.ObserveMutation("change_role", "ok")
	metrics.ObserveMutation("set_active", "forbidden")

	body := scrape(t, metrics)
	assert.Contains(t, body, `learnlingo_admin_mutations_total{op="change_role",result="ok"} 2`)
	assert.Contains(t, body, `learnlingo_admin_mutations_total{op="set_active",result="forbidden"} 1`)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveMutation("change_role", "ok")

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
