package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zenmindful/internal/domain"

	"github.com/redis/go-redis/v9"
)

const otpPrefix = "otp:"

// OTPStore keeps one pending code hash per phone number.
type OTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOTPStore(client *redis.Client, ttl time.Duration) *OTPStore {
	return &OTPStore{client: client, ttl: ttl}
}

// Put replaces any pending code for phone.
func (s *OTPStore) Put(ctx context.Context, phone, hash string) error {
	if err := s.client.Set(ctx, otpPrefix+phone, hash, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Take returns the pending hash and removes it, so a code verifies once.
func (s *OTPStore) Take(ctx context.Context, phone string) (string, error) {
	val, err := s.client.GetDel(ctx, otpPrefix+phone).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidCode
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return val, nil
}
