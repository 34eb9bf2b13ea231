package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound indicates an expired or unknown reset token.
var ErrTokenNotFound = errors.New("reset token not found")

// ResetTokenStore keeps single-use password reset tokens with a TTL.
type ResetTokenStore interface {
	Put(ctx context.Context, token, userID string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

type redisResetTokenStore struct {
	client *redis.Client
}

// NewResetTokenStore builds a redis-backed token store.
func NewResetTokenStore(client *redis.Client) ResetTokenStore {
	return &redisResetTokenStore{client: client}
}

func resetKey(token string) string {
	return "pwreset:" + token
}

func (s *redisResetTokenStore) Put(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, resetKey(token), userID, ttl).Err()
}

// Consume atomically fetches and deletes the token so it can be used at
// most once.
func (s *redisResetTokenStore) Consume(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}
