package rbac

import (
	"sync"

	"github.com/learnlingo/learnlingo/internal/auth"
)

// Decision is the outcome of one guard observation.
type Decision struct {
	// Pending is set while the session is still loading.
	Pending bool
	// Allowed is set once a resolved session holds admin access.
	Allowed bool
	// Redirect is set on the observation that ends a loading phase without
	// admin access, and on no other.
	Redirect     bool
	Capabilities Capabilities
}

// Guard tracks session state over time and decides when an unauthorized
// visitor must be sent to the login surface.
type Guard struct {
	mu         sync.Mutex
	loading    bool
	onRedirect func()
}

// NewGuard returns a guard that starts in the loading phase. onRedirect, when
// set, runs each time a redirect is decided.
func NewGuard(onRedirect func()) *Guard {
	return &Guard{loading: true, onRedirect: onRedirect}
}

// Observe feeds the current state to the guard.
func (g *Guard) Observe(state auth.State) Decision {
	g.mu.Lock()
	if state.Loading {
		g.loading = true
		g.mu.Unlock()
		return Decision{Pending: true}
	}

	var caps Capabilities
	if state.Identity != nil && state.RoleKnown {
		caps = Evaluate(state.Role)
	}
	d := Decision{Allowed: state.Identity != nil && caps.HasAdminAccess, Capabilities: caps}
	if g.loading && !d.Allowed {
		d.Redirect = true
	}
	g.loading = false
	g.mu.Unlock()

	if d.Redirect && g.onRedirect != nil {
		g.onRedirect()
	}
	return d
}
