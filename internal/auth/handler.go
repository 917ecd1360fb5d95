package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/learnlingo/learnlingo/internal/platform/httpx"
	"github.com/learnlingo/learnlingo/internal/shared"
	"github.com/learnlingo/learnlingo/internal/view"
)

// AdminHome is where a successful sign-in lands.
const AdminHome = "/admin"

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/auth/session", h.createSession)
	r.Post("/logout", h.handleLogout)
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Sign in",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
	}
	if err := h.templates.Render(w, "pages/login.html", viewData); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// createSession exchanges an access token for a cookie session. Browsers post
// the token as a form field; API clients send it as a bearer token and get
// JSON back.
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	token, bearer := bearerToken(r)
	if !bearer {
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		token = strings.TrimSpace(r.PostFormValue("access_token"))
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during sign-in")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, err := h.service.SignIn(r.Context(), token)
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) || errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Warn("sign-in rejected", slog.Any("error", err))
		} else {
			h.logger.Error("sign-in failed", slog.Any("error", err))
		}
		if bearer {
			httpx.RespondError(w, err)
			return
		}
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: shared.UserSafeMessage(err)})
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.sessionManager.Renew(sess)
	h.service.Bind(sess, identity)
	h.logger.Info("signed in", slog.String("user_id", identity.UserID.String()))

	if bearer {
		httpx.JSON(w, http.StatusOK, map[string]string{"redirect": AdminHome})
		return
	}
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Welcome back"})
	http.Redirect(w, r, AdminHome, http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
