// Package auth registers staff accounts and turns credentials into sessions.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/foundit-unsri/foundit/internal/model"
	"github.com/foundit-unsri/foundit/internal/session"
	"github.com/foundit-unsri/foundit/internal/store"
)

var (
	ErrUsernameNotFound  = errors.New("username not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrLogoutFailed      = errors.New("logout failed")
)

// Service implements registration, login and logout.
type Service struct {
	DB       *sql.DB
	Sessions *session.Manager
	Cost     int // bcrypt cost
}

// NewService returns a Service hashing with bcrypt.DefaultCost.
func NewService(db *sql.DB, sessions *session.Manager) *Service {
	return &Service{DB: db, Sessions: sessions, Cost: bcrypt.DefaultCost}
}

// Register creates a user and returns its ID.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	if err := model.ValidateUsername(username); err != nil {
		return "", err
	}
	if err := model.ValidatePassword(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.Cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := store.CreateUser(ctx, s.DB, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return "", ErrUsernameTaken
		}
		return "", err
	}

	slog.Info("user registered", "user", username, "id", user.ID)
	return user.ID, nil
}

// Login checks credentials and starts a session. It returns the session and
// the signed token to hand to the client.
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, string, error) {
	user, err := store.GetUserByUsername(ctx, s.DB, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrUsernameNotFound
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", ErrIncorrectPassword
		}
		return nil, "", fmt.Errorf("comparing password: %w", err)
	}

	sess, token, err := s.Sessions.Create(ctx, user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	slog.Info("user logged in", "user", user.Username)
	return sess, token, nil
}

// Logout destroys the session referenced by token. An empty token is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.Sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", ErrLogoutFailed, err)
	}
	return nil
}
