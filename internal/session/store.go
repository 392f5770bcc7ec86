// Package session keeps authenticated sessions server-side and references
// them from the client with a signed cookie.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foundit-unsri/foundit/internal/model"
	"github.com/foundit-unsri/foundit/internal/store"
)

// ErrNotFound is returned by Store.Get for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store persists sessions keyed by their opaque ID.
type Store interface {
	Get(ctx context.Context, id string) (*model.Session, error)
	Set(ctx context.Context, s *model.Session) error
	Destroy(ctx context.Context, id string) error
}

// SQLStore keeps sessions in the session table.
type SQLStore struct {
	DB  *sql.DB
	Now func() time.Time
}

// NewSQLStore returns a Store backed by db.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db, Now: time.Now}
}

// Get returns the session, or ErrNotFound if it is missing or expired.
func (s *SQLStore) Get(ctx context.Context, id string) (*model.Session, error) {
	sess, err := store.GetSession(ctx, s.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.Now()) {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Set stores a new session and opportunistically purges expired ones.
func (s *SQLStore) Set(ctx context.Context, sess *model.Session) error {
	if err := store.CreateSession(ctx, s.DB, sess); err != nil {
		return err
	}
	if n, err := store.DeleteExpiredSessions(ctx, s.DB, s.Now()); err != nil {
		slog.Warn("failed to purge expired sessions", "error", err)
	} else if n > 0 {
		slog.Debug("purged expired sessions", "count", n)
	}
	return nil
}

// Destroy removes the session.
func (s *SQLStore) Destroy(ctx context.Context, id string) error {
	if err := store.DeleteSession(ctx, s.DB, id); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}
