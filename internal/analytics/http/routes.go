package analytichttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/learnlingo/learnlingo/internal/auth"
)

// MountRoutes registers dashboard and analytics endpoints. Callers mount them
// behind the admin guard.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/", h.handleDashboard)
	r.Get("/analytics", h.handleAnalytics)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/analytics/export.csv", h.handleCSV)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	if state := auth.StateFromContext(r.Context()); state.Identity != nil {
		return "user:" + state.Identity.UserID.String(), nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
