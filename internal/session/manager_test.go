package session

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/foundit-unsri/foundit/internal/db"
)

const testSecret = "test-session-secret"

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestManager(t *testing.T) (*Manager, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	st := NewSQLStore(db.NewTestDB(t))
	st.Now = c.now
	m := NewManager(st, testSecret, time.Hour)
	m.Now = c.now
	return m, c
}

func TestCreateAndLoad(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	sess, token, err := m.Create(ctx, "user-1", "staff1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	got, err := m.Load(ctx, token)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("expected session %q, got %q", sess.ID, got.ID)
	}
	if got.UserID != "user-1" || got.Username != "staff1" {
		t.Errorf("session bound to wrong user: %+v", got)
	}
}

func TestLoadWrongSecret(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, token, _ := m.Create(ctx, "user-1", "staff1")

	other := NewManager(m.Store, "another-secret", time.Hour)
	other.Now = m.Now
	if _, err := other.Load(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestLoadTamperedToken(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, token, _ := m.Create(ctx, "user-1", "staff1")
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"username":"admin","sub":"user-2","jti":"forged","exp":9999999999}`))
	tampered := parts[0] + "." + forged + "." + parts[2]

	if _, err := m.Load(ctx, tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := m.Load(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestLoadExpired(t *testing.T) {
	m, c := newTestManager(t)
	ctx := context.Background()

	_, token, _ := m.Create(ctx, "user-1", "staff1")
	c.t = c.t.Add(2 * time.Hour)

	if _, err := m.Load(ctx, token); err == nil {
		t.Error("expected error for expired session")
	}
}

func TestDestroy(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, token, _ := m.Create(ctx, "user-1", "staff1")
	if err := m.Destroy(ctx, token); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := m.Load(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after destroy, got %v", err)
	}

	// Garbage tokens reference no session.
	if err := m.Destroy(ctx, "garbage"); err != nil {
		t.Errorf("Destroy(garbage): %v", err)
	}
}

func TestDestroyExpiredToken(t *testing.T) {
	m, c := newTestManager(t)
	ctx := context.Background()

	sess, token, _ := m.Create(ctx, "user-1", "staff1")
	c.t = c.t.Add(2 * time.Hour)

	if err := m.Destroy(ctx, token); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := m.Store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected session removed, got %v", err)
	}
}

func TestCookies(t *testing.T) {
	m, _ := newTestManager(t)
	m.Secure = true

	rec := httptest.NewRecorder()
	m.SetCookie(rec, "tok")
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || c.Value != "tok" || !c.HttpOnly || !c.Secure {
		t.Errorf("unexpected cookie: %+v", c)
	}
	if c.MaxAge != 3600 {
		t.Errorf("expected max-age 3600, got %d", c.MaxAge)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if got := Token(req); got != "tok" {
		t.Errorf("Token() = %q", got)
	}
	if got := Token(httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
		t.Errorf("expected empty token without cookie, got %q", got)
	}

	rec = httptest.NewRecorder()
	m.ClearCookie(rec)
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Errorf("expected expiring cookie, got %+v", cleared)
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Error("expected nil session in empty context")
	}
	m, _ := newTestManager(t)
	sess, _, _ := m.Create(context.Background(), "user-1", "staff1")
	ctx := NewContext(context.Background(), sess)
	if got := FromContext(ctx); got != sess {
		t.Errorf("FromContext returned %+v", got)
	}
}
