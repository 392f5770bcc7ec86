package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/foundit-unsri/foundit/internal/model"
)

// CreateUser inserts a user. A taken username yields ErrDuplicate.
func CreateUser(ctx context.Context, db *sql.DB, user *model.User) error {
	user.CreatedAt = now()
	_, err := db.ExecContext(ctx,
		"INSERT INTO `user` (id, username, password, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Username, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("creating user %q: %w", user.Username, ErrDuplicate)
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetUser returns a user by ID, or ErrNotFound.
func GetUser(ctx context.Context, db *sql.DB, id string) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		"SELECT id, username, password, created_at FROM `user` WHERE id = ?", id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username, or ErrNotFound.
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		"SELECT id, username, password, created_at FROM `user` WHERE username = ?", username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}
