package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/foundit-unsri/foundit/internal/model"
)

// CreateSession persists a session.
func CreateSession(ctx context.Context, db *sql.DB, s *model.Session) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO session (id, user_id, username, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Username, s.CreatedAt.UTC(), s.ExpiresAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("creating session: %w", ErrDuplicate)
		}
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// GetSession returns a session by ID, expired or not, or ErrNotFound.
func GetSession(ctx context.Context, db *sql.DB, id string) (*model.Session, error) {
	s := &model.Session{}
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, username, created_at, expires_at FROM session WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &s.Username, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return s, nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func DeleteSession(ctx context.Context, db *sql.DB, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM session WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired before t and returns
// how many were removed.
func DeleteExpiredSessions(ctx context.Context, db *sql.DB, t time.Time) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM session WHERE expires_at < ?`, t.UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return n, nil
}
