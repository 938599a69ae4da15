package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenKind is the Redis key prefix a token id is stored under.
type TokenKind string

const (
	AccessTokenKind  TokenKind = "access_token"
	RefreshTokenKind TokenKind = "refresh_token"
)

// TokenStore tracks issued token ids so they can be revoked before they expire.
type TokenStore interface {
	Store(ctx context.Context, kind TokenKind, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, kind TokenKind, userID uuid.UUID, tokenID string) (bool, error)
	// Revoke deletes the token id and reports whether it was still live. Only one
	// of several concurrent callers for the same id sees true.
	Revoke(ctx context.Context, kind TokenKind, userID uuid.UUID, tokenID string) (bool, error)
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func tokenKey(kind TokenKind, userID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", kind, userID, tokenID)
}

func (s *redisTokenStore) Store(ctx context.Context, kind TokenKind, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(kind, userID.String(), tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, kind TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, tokenKey(kind, userID.String(), tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, kind TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.client.Del(ctx, tokenKey(kind, userID.String(), tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
