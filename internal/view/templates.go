package view

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/learnlingo/learnlingo/internal/shared"
	"github.com/learnlingo/learnlingo/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// Viewer describes the signed-in administrator shown in the page header.
type Viewer struct {
	Name      string
	Email     string
	AvatarURL string
	Role      string
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Viewer      *Viewer
	Data        any
}

// NewEngine parses templates at build-time. Times are shown in loc, the zone
// the dashboard counts days and months in; nil means UTC.
func NewEngine(loc *time.Location) (*Engine, error) {
	tpl, err := template.New("root").Funcs(funcMap(loc)).ParseFS(web.Templates,
		"templates/layouts/*.html",
		"templates/partials/*.html",
		"templates/pages/*.html",
		"templates/pages/*/*.html",
	)
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

func funcMap(loc *time.Location) template.FuncMap {
	if loc == nil {
		loc = time.UTC
	}
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(loc).Format("02 Jan 2006 15:04")
		},
		"formatDay": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(loc).Format("Jan 2, 2006")
		},
		"lastSeen": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return "Never"
			}
			return t.In(loc).Format("Jan 2, 2006")
		},
		"initial": func(name string) string {
			for _, r := range name {
				return string(r)
			}
			return "?"
		},
	}
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}
