package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
)

const sessionSecretSetting = "session_secret"

// GetSetting returns a stored setting, or ErrNotFound.
func GetSetting(ctx context.Context, db *sql.DB, name string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM setting WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting setting %s: %w", name, err)
	}
	return value, nil
}

// GetSessionSecret retrieves the session signing secret from the database.
// If no secret exists, it generates one, stores it, and returns it. A
// concurrent first start that loses the insert race reads the winner's value.
func GetSessionSecret(ctx context.Context, db *sql.DB) (string, error) {
	secret, err := GetSetting(ctx, db, sessionSecretSetting)
	if err == nil {
		return secret, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err = db.ExecContext(ctx,
		`INSERT INTO setting (name, value) VALUES (?, ?)`, sessionSecretSetting, candidate,
	)
	if err != nil && !isUniqueViolation(err) {
		return "", fmt.Errorf("storing session secret: %w", err)
	}

	return GetSetting(ctx, db, sessionSecretSetting)
}
