package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/learnlingo/learnlingo/internal/auth"
	"github.com/learnlingo/learnlingo/internal/shared"
)

// StateResolver resolves the session state of a request.
type StateResolver interface {
	Resolve(ctx context.Context, sess *shared.Session) (auth.State, error)
}

// Middleware protects admin routes.
type Middleware struct {
	Resolver StateResolver
	Logger   *slog.Logger
	LoginURL string
}

// RequireAdmin resolves the session on every request and lets only admins
// through. Everyone else is redirected to the login surface.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, ok := m.authorize(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithState(r.Context(), state)))
	})
}

// Recheck re-resolves authorization after the backend refused a mutation.
// It returns false after redirecting when admin access is gone.
func (m Middleware) Recheck(w http.ResponseWriter, r *http.Request) bool {
	_, ok := m.authorize(w, r)
	return ok
}

func (m Middleware) authorize(w http.ResponseWriter, r *http.Request) (auth.State, bool) {
	redirected := false
	guard := NewGuard(func() {
		redirected = true
		m.redirect(w, r)
	})
	guard.Observe(auth.Loading())

	state := auth.State{}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		resolved, err := m.Resolver.Resolve(r.Context(), sess)
		if err != nil {
			m.logger().Error("resolve session", slog.Any("error", err))
		} else {
			state = resolved
		}
	}

	d := guard.Observe(state)
	if !d.Allowed {
		if !redirected {
			m.redirect(w, r)
		}
		if state.Identity != nil {
			m.logger().Warn("admin access denied",
				slog.String("user_id", state.Identity.UserID.String()),
				slog.String("path", r.URL.Path))
		}
		return state, false
	}
	return state, true
}

func (m Middleware) redirect(w http.ResponseWriter, r *http.Request) {
	loginURL := m.LoginURL
	if loginURL == "" {
		loginURL = "/login"
	}
	http.Redirect(w, r, loginURL, http.StatusFound)
}

func (m Middleware) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}
