package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/foundit-unsri/foundit/internal/model"
)

// Runs against a real server only when REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	client, err := NewRedisClient(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	st := NewRedisStore(client)
	st.Prefix = "foundit:test:" + t.Name() + ":"

	now := time.Now().UTC().Truncate(time.Second)
	sess := &model.Session{ID: "s1", UserID: "u1", Username: "staff1", CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	if err := st.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}
	t.Cleanup(func() { st.Destroy(ctx, "s1") })

	got, err := st.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != "u1" || got.Username != "staff1" {
		t.Errorf("unexpected session: %+v", got)
	}

	ttl, err := client.TTL(ctx, st.key("s1")).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Errorf("unexpected TTL %v (err %v)", ttl, err)
	}

	if err := st.Destroy(ctx, "s1"); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := st.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStoreRejectsExpired(t *testing.T) {
	st := NewRedisStore(nil)
	past := time.Now().Add(-time.Minute)
	err := st.Set(context.Background(), &model.Session{ID: "x", ExpiresAt: past})
	if err == nil {
		t.Error("expected error storing an expired session")
	}
}
