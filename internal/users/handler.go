package users

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/learnlingo/learnlingo/internal/auth"
	"github.com/learnlingo/learnlingo/internal/roles"
	"github.com/learnlingo/learnlingo/internal/shared"
	"github.com/learnlingo/learnlingo/internal/view"
)

const listPath = "/admin/users"

// Authorizer re-checks admin access after the backend refused a write.
type Authorizer interface {
	Recheck(w http.ResponseWriter, r *http.Request) bool
}

// Handler manages user management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	guard     Authorizer
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, guard Authorizer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf, guard: guard}
}

// MountRoutes registers user routes. Callers mount them behind the admin guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listUsers)
	r.Get("/{userID}/edit", h.editUser)
	r.Post("/{userID}", h.updateUser)
	r.Post("/{userID}/role", h.changeRole)
	r.Post("/{userID}/status", h.toggleStatus)
}

type formErrors map[string]string

type listPageData struct {
	Users    []User
	Total    int
	Criteria Criteria
	Roles    []roles.Role
	Errors   formErrors
}

type editPageData struct {
	User   User
	Form   ProfileUpdate
	Roles  []roles.Role
	Errors formErrors
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := ParseCriteria(q.Get("search"), q.Get("role"))
	data := listPageData{Criteria: criteria, Roles: roles.All()}

	all, err := h.service.Load(r.Context())
	if err != nil {
		h.logger.Error("load users failed", slog.Any("error", err))
		data.Errors = formErrors{"general": loadFailureMessage(err)}
		h.render(w, r, "pages/users/list.html", "User Management", data, http.StatusInternalServerError)
		return
	}
	data.Users = Filter(all, criteria)
	data.Total = len(all)
	h.render(w, r, "pages/users/list.html", "User Management", data, http.StatusOK)
}

func (h *Handler) editUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("load user failed", slog.String("user_id", userID.String()), slog.Any("error", err))
		h.redirectWithFlash(w, r, listPath, "error", shared.UserSafeMessage(err))
		return
	}
	form := ProfileUpdate{DisplayName: user.DisplayName, Bio: user.Bio, IsActive: user.IsActive, Role: user.Role.String()}
	h.render(w, r, "pages/users/edit.html", "Edit User", editPageData{User: user, Form: form, Roles: roles.All()}, http.StatusOK)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	original, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("load user failed", slog.String("user_id", userID.String()), slog.Any("error", err))
		h.redirectWithFlash(w, r, listPath, "error", "Failed to update user")
		return
	}
	form := ProfileUpdate{
		DisplayName: r.PostFormValue("display_name"),
		Bio:         r.PostFormValue("bio"),
		IsActive:    r.PostFormValue("is_active") == "on" || r.PostFormValue("is_active") == "true",
		Role:        r.PostFormValue("role"),
	}

	err = h.service.UpdateProfile(r.Context(), original, form)
	if err != nil {
		h.logger.Error("update user failed", slog.String("user_id", userID.String()), slog.Any("error", err))
		if errors.Is(err, shared.ErrValidation) {
			data := editPageData{User: original, Form: form, Roles: roles.All(), Errors: validationErrors(err)}
			h.render(w, r, "pages/users/edit.html", "Edit User", data, http.StatusUnprocessableEntity)
			return
		}
		if !h.recheck(w, r, err) {
			return
		}
		h.redirectWithFlash(w, r, listPath, "error", "Failed to update user")
		return
	}
	h.logger.Info("user updated", slog.String("user_id", userID.String()))
	h.redirectWithFlash(w, r, listPath, "success", "User updated successfully")
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	role, err := roles.Parse(r.PostFormValue("role"))
	if err != nil {
		h.logger.Warn("change role rejected", slog.String("user_id", userID.String()), slog.Any("error", err))
		h.redirectWithFlash(w, r, listPath, "error", "Failed to update user role")
		return
	}
	if err := h.service.ChangeRole(r.Context(), userID, role); err != nil {
		h.logger.Error("change role failed", slog.String("user_id", userID.String()), slog.Any("error", err))
		if !h.recheck(w, r, err) {
			return
		}
		h.redirectWithFlash(w, r, listPath, "error", "Failed to update user role")
		return
	}
	h.logger.Info("user role changed", slog.String("user_id", userID.String()), slog.String("role", role.String()))
	h.redirectWithFlash(w, r, listPath, "success", "User role updated successfully")
}

func (h *Handler) toggleStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	current, err := strconv.ParseBool(r.PostFormValue("current"))
	if err != nil {
		h.logger.Warn("toggle status rejected", slog.String("user_id", userID.String()), slog.Any("error", err))
		h.redirectWithFlash(w, r, listPath, "error", "Failed to update user status")
		return
	}
	next, err := h.service.ToggleStatus(r.Context(), userID, current)
	if err != nil {
		h.logger.Error("toggle status failed", slog.String("user_id", userID.String()), slog.Any("error", err))
		if !h.recheck(w, r, err) {
			return
		}
		h.redirectWithFlash(w, r, listPath, "error", "Failed to update user status")
		return
	}
	verb := "deactivated"
	if next {
		verb = "activated"
	}
	h.logger.Info("user status changed", slog.String("user_id", userID.String()), slog.Bool("active", next))
	h.redirectWithFlash(w, r, listPath, "success", fmt.Sprintf("User %s successfully", verb))
}

// recheck runs the guard again when the backend refused the write for the
// current actor. It reports whether the handler may still respond.
func (h *Handler) recheck(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, shared.ErrForbidden) || h.guard == nil {
		return true
	}
	return h.guard.Recheck(w, r)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
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
		h.logger.Error("render template", slog.Any("error", err))
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	shared.Flash(r.Context(), kind, message)
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func loadFailureMessage(err error) string {
	if errors.Is(err, ErrDirectoryTooLarge) {
		return "The user directory is too large to display"
	}
	return "Failed to load users"
}

func validationErrors(err error) formErrors {
	out := formErrors{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Field()] = fieldMessage(fe)
		}
	}
	if len(out) == 0 {
		out["general"] = shared.UserSafeMessage(err)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "oneof", "required":
		return "Choose a valid role"
	default:
		return "Invalid value"
	}
}
