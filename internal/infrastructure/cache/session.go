package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zenmindful/internal/domain"

	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// SessionStore maps a connection token to the canonical user id. Entries
// expire after ttl; an expired entry reads as absent.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, token, userID string) error {
	if err := s.client.Set(ctx, sessionPrefix+token, userID, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (string, error) {
	val, err := s.client.Get(ctx, sessionPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return val, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionPrefix+token).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
