package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisSessionPrefix = "auth:session:"
	redisUserPrefix    = "auth:user:"
)

// RedisStore implements Store on top of a Redis client. Sessions are stored
// as JSON with a TTL matching their expiry, so Redis itself handles the
// cleanup that the memory store runs in a loop.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) GetSession(ctx context.Context, id string) (*Session, error) {
	raw, err := s.client.Get(ctx, redisSessionPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis: get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("redis: decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	raw, err := s.client.Get(ctx, redisUserPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("redis: get user: %w", err)
	}

	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("redis: decode user: %w", err)
	}
	return &u, nil
}

func (s *RedisStore) CreateSession(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("redis: encode session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, redisSessionPrefix+sess.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis: create session: %w", err)
	}
	return nil
}

func (s *RedisStore) UpdateSessionExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}

	sess.ExpiresAt = expiresAt
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("redis: encode session: %w", err)
	}

	// Read-modify-write without a transaction: concurrent rotators compute
	// the same new expiry, so last-write-wins converges.
	if err := s.client.Set(ctx, redisSessionPrefix+id, raw, time.Until(expiresAt)).Err(); err != nil {
		return fmt.Errorf("redis: update session expiry: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteSession(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisSessionPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis: delete session: %w", err)
	}
	return nil
}

// PutUser stores a user record without expiry.
func (s *RedisStore) PutUser(ctx context.Context, u *User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("redis: encode user: %w", err)
	}
	if err := s.client.Set(ctx, redisUserPrefix+u.ID.String(), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis: put user: %w", err)
	}
	return nil
}

var (
	_ Store      = (*RedisStore)(nil)
	_ UserWriter = (*RedisStore)(nil)
)
