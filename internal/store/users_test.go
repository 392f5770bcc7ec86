package store

import (
	"context"
	"errors"
	"testing"

	"github.com/foundit-unsri/foundit/internal/db"
	"github.com/foundit-unsri/foundit/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := &model.User{ID: "u-1", Username: "staff1", PasswordHash: "hash123"}
	if err := CreateUser(ctx, database, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := GetUser(ctx, database, "u-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "staff1" {
		t.Errorf("expected username 'staff1', got %q", got.Username)
	}
	if got.PasswordHash != "hash123" {
		t.Errorf("expected password hash 'hash123', got %q", got.PasswordHash)
	}
}

func TestGetUserByUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, &model.User{ID: "u-1", Username: "alice", PasswordHash: "hash"})

	user, err := GetUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user.ID != "u-1" {
		t.Errorf("expected id 'u-1', got %q", user.ID)
	}

	_, err = GetUserByUsername(ctx, database, "bob")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing user, got %v", err)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := CreateUser(ctx, database, &model.User{ID: "u-1", Username: "staff1", PasswordHash: "a"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	err := CreateUser(ctx, database, &model.User{ID: "u-2", Username: "staff1", PasswordHash: "b"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}
