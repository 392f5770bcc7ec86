package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/foundit-unsri/foundit/internal/auth"
	"github.com/foundit-unsri/foundit/internal/session"
)

const (
	msgUsernameNotFound  = "Username tidak ditemukan"
	msgIncorrectPassword = "Password salah"
	msgLoginFailed       = "Gagal login"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	if s.currentSession(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "login.html", &PageData{Title: "Login"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	_, token, err := s.Auth.Login(r.Context(), username, password)
	if err != nil {
		page := &PageData{Title: "Login"}
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, auth.ErrUsernameNotFound):
			page.Error = msgUsernameNotFound
		case errors.Is(err, auth.ErrIncorrectPassword):
			slog.Warn("login failed", "username", username, "remote", r.RemoteAddr)
			page.Error = msgIncorrectPassword
		default:
			slog.Error("failed to log in", "username", username, "error", err)
			page.Error = msgLoginFailed
			status = http.StatusInternalServerError
		}
		s.Templates.RenderStatus(w, status, "login.html", page)
		return
	}

	s.Sessions.SetCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.Auth.Logout(r.Context(), session.Token(r)); err != nil {
		slog.Error("failed to log out", "error", err)
		http.Error(w, msgLogoutFailed, http.StatusInternalServerError)
		return
	}
	s.Sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
