package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCodeNotFound means no confirmation code is stored for the username,
// either because signup never happened or the code expired.
var ErrCodeNotFound = errors.New("confirmation code not found")

// ConfirmationCodeStore keeps one-time signup codes keyed by username.
// Values are bcrypt hashes, never the code itself, and expire with the
// store's TTL.
type ConfirmationCodeStore interface {
	Save(ctx context.Context, username, codeHash string) error
	Get(ctx context.Context, username string) (string, error)
	Delete(ctx context.Context, username string) error
}

type redisCodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewConfirmationCodeStore wraps a redis client as a code store. The TTL
// bounds how long a signup code stays exchangeable.
func NewConfirmationCodeStore(client *redis.Client, ttl time.Duration) ConfirmationCodeStore {
	return &redisCodeStore{client: client, ttl: ttl}
}

func codeKey(username string) string {
	return fmt.Sprintf("confirmation:user:%s", username)
}

func (s *redisCodeStore) Save(ctx context.Context, username, codeHash string) error {
	if err := s.client.Set(ctx, codeKey(username), codeHash, s.ttl).Err(); err != nil {
		return fmt.Errorf("save confirmation code: %w", err)
	}
	return nil
}

func (s *redisCodeStore) Get(ctx context.Context, username string) (string, error) {
	val, err := s.client.Get(ctx, codeKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get confirmation code: %w", err)
	}
	return val, nil
}

func (s *redisCodeStore) Delete(ctx context.Context, username string) error {
	if err := s.client.Del(ctx, codeKey(username)).Err(); err != nil {
		return fmt.Errorf("delete confirmation code: %w", err)
	}
	return nil
}
