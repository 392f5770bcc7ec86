package model

import (
	"time"
	"unicode/utf8"
)

// User is a staff account allowed to use the dashboard.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Credential limits.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
	MinPasswordLength = 8
	// bcrypt ignores input past 72 bytes.
	MaxPasswordBytes = 72
)

// ValidateUsername checks length and the allowed character set
// (letters, digits, '.', '_' and '-').
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return &ValidationError{Field: "username", Message: "username harus 3 sampai 64 karakter"}
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return &ValidationError{Field: "username", Message: "username hanya boleh berisi huruf, angka, '.', '_' dan '-'"}
		}
	}
	return nil
}

// ValidatePassword checks password length.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "password minimal 8 karakter"}
	}
	if len(password) > MaxPasswordBytes {
		return &ValidationError{Field: "password", Message: "password terlalu panjang"}
	}
	return nil
}
