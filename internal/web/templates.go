package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/foundit-unsri/foundit/internal/auth"
	"github.com/foundit-unsri/foundit/internal/item"
	"github.com/foundit-unsri/foundit/internal/model"
	"github.com/foundit-unsri/foundit/internal/session"
	"github.com/foundit-unsri/foundit/internal/upload"
	webembed "github.com/foundit-unsri/foundit/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map. Times are shown in loc.
func FuncMap(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.In(loc).Format("02 Jan 2006 15:04")
		},
		// inputTime formats t for <input type="datetime-local">.
		"inputTime": func(t time.Time) string {
			return t.In(loc).Format("2006-01-02T15:04")
		},
		"claimed": func(status string) bool {
			return status == model.ItemStatusClaimed
		},
		"statuses": func() []string {
			return []string{model.ItemStatusNotClaimed, model.ItemStatusClaimed}
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates(loc *time.Location) (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"index.html",
		"detail.html",
		"login.html",
		"dashboard.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap(loc))
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with status 200.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code. The page is
// executed into a buffer first so a failing template yields a clean 500.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, msgServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write page", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	User    *model.Session
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	Items          *item.Service
	Auth           *auth.Service
	Sessions       *session.Manager
	Uploads        *upload.Store
	Templates      *Templates
	Location       *time.Location // interprets form times without an offset
	MaxUploadBytes int64
}
