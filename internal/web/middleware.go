package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/foundit-unsri/foundit/internal/model"
	"github.com/foundit-unsri/foundit/internal/session"
)

// RequireSession loads the session named by the cookie and adds it to the
// request context. Requests without a live session are redirected to the
// login page and any stale cookie is cleared.
func RequireSession(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := session.Token(r)
			if token == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			sess, err := sessions.Load(r.Context(), token)
			if err != nil {
				if !errors.Is(err, session.ErrInvalidToken) && !errors.Is(err, session.ErrNotFound) {
					slog.Error("failed to load session", "error", err)
				}
				sessions.ClearCookie(w)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

// currentSession returns the caller's session on public pages, or nil.
func (s *Server) currentSession(r *http.Request) *model.Session {
	if sess := session.FromContext(r.Context()); sess != nil {
		return sess
	}
	token := session.Token(r)
	if token == "" {
		return nil
	}
	sess, err := s.Sessions.Load(r.Context(), token)
	if err != nil {
		return nil
	}
	return sess
}
