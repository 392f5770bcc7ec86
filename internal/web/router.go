package web

import (
	"net/http"
	"time"

	webembed "github.com/foundit-unsri/foundit/web"
)

const defaultMaxUploadBytes = 5 << 20

// NewRouter creates the web page router with all page routes registered.
// Templates are loaded when s does not carry them yet.
func NewRouter(s *Server) (http.Handler, error) {
	if s.Templates == nil {
		loc := s.Location
		if loc == nil {
			loc = time.UTC
		}
		templates, err := LoadTemplates(loc)
		if err != nil {
			return nil, err
		}
		s.Templates = templates
	}
	if s.Location == nil {
		s.Location = time.UTC
	}
	if s.MaxUploadBytes <= 0 {
		s.MaxUploadBytes = defaultMaxUploadBytes
	}

	mux := http.NewServeMux()
	requireSession := RequireSession(s.Sessions)

	// Static assets and stored photos.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	mux.HandleFunc("GET /uploads/{name}", s.Photo)

	// Public routes.
	mux.HandleFunc("GET /{$}", s.Index)
	mux.HandleFunc("GET /detail/{id}", s.Detail)
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /dashboard", requireSession(http.HandlerFunc(s.Dashboard)))
	mux.Handle("POST /item/add", requireSession(http.HandlerFunc(s.ItemAdd)))
	mux.Handle("POST /item/edit/{id}", requireSession(http.HandlerFunc(s.ItemEdit)))
	mux.Handle("POST /item/delete/{id}", requireSession(http.HandlerFunc(s.ItemDelete)))

	return mux, nil
}
