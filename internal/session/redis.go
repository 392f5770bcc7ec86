package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foundit-unsri/foundit/internal/model"
)

// DefaultRedisPrefix namespaces session keys.
const DefaultRedisPrefix = "foundit:session:"

// RedisStore keeps sessions as JSON values that expire with the session.
type RedisStore struct {
	Client *redis.Client
	Prefix string
	Now    func() time.Time
}

// NewRedisStore returns a Store backed by client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client, Prefix: DefaultRedisPrefix, Now: time.Now}
}

// NewRedisClient builds a client with the timeouts used throughout the app
// and verifies the server is reachable.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) key(id string) string {
	return s.Prefix + id
}

// Get returns the session, or ErrNotFound if the key is missing or expired.
func (s *RedisStore) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := s.Client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	if sess.Expired(s.Now()) {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Set stores the session with a TTL matching its expiry.
func (s *RedisStore) Set(ctx context.Context, sess *model.Session) error {
	ttl := sess.ExpiresAt.Sub(s.Now())
	if ttl <= 0 {
		return fmt.Errorf("storing session: already expired")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.Client.Set(ctx, s.key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Destroy deletes the session key.
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	if err := s.Client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}
