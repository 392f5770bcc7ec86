package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/foundit-unsri/foundit/internal/model"
)

// CookieName is the client-side session cookie.
const CookieName = "foundit.sid"

// ErrInvalidToken is returned for cookies that fail signature or expiry checks.
var ErrInvalidToken = errors.New("invalid session token")

// Manager creates, loads and destroys sessions and their cookies.
type Manager struct {
	Store  Store
	TTL    time.Duration
	Secure bool // set the Secure cookie attribute
	Now    func() time.Time

	secret []byte
}

// NewManager returns a Manager signing cookies with secret.
func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{
		Store:  store,
		TTL:    ttl,
		Now:    time.Now,
		secret: []byte(secret),
	}
}

// Create starts a session for the user and returns it with its signed token.
func (m *Manager) Create(ctx context.Context, userID, username string) (*model.Session, string, error) {
	now := m.Now().UTC().Truncate(time.Second)
	sess := &model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.TTL),
	}

	token, err := signToken(m.secret, sess.ID, userID, username, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return nil, "", err
	}
	if err := m.Store.Set(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("storing session: %w", err)
	}
	return sess, token, nil
}

// Load verifies token and returns the live session it references. It returns
// ErrInvalidToken for bad tokens and ErrNotFound when the server-side session
// is gone.
func (m *Manager) Load(ctx context.Context, token string) (*model.Session, error) {
	c, err := parseToken(m.secret, token, m.Now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sess, err := m.Store.Get(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != c.Subject {
		return nil, ErrInvalidToken
	}
	return sess, nil
}

// Destroy removes the server-side session referenced by token. Tokens with a
// bad signature reference nothing and are ignored; expired ones still name a
// session to remove.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	c, err := parseToken(m.secret, token, m.Now, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	return m.Store.Destroy(ctx, c.ID)
}

// Token returns the session token carried by the request, if any.
func Token(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetCookie writes the session cookie for token.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.TTL.Seconds()),
	})
}

// ClearCookie removes the session cookie with consistent attributes.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying sess.
func NewContext(ctx context.Context, sess *model.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session stored by NewContext, or nil.
func FromContext(ctx context.Context) *model.Session {
	sess, _ := ctx.Value(contextKey{}).(*model.Session)
	return sess
}
