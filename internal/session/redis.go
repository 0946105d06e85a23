package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"user-auth-service/internal/security"
)

// RedisStore implements Store on Redis. Expiry is delegated to Redis key TTLs,
// so reads never observe a stale record.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore returns a Store backed by the given Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient creates a Redis client for the session store.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SetToken records token as the active token for (userID, kind) with ttl.
// A plain SET replaces any previous record atomically.
func (s *RedisStore) SetToken(ctx context.Context, userID string, kind security.TokenKind, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(userID, kind), token, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// GetToken returns the active token for (userID, kind), or "" when absent.
func (s *RedisStore) GetToken(ctx context.Context, userID string, kind security.TokenKind) (string, error) {
	token, err := s.client.Get(ctx, sessionKey(userID, kind)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get session: %w", err)
	}
	return token, nil
}

// DeleteTokens removes both session records for userID.
func (s *RedisStore) DeleteTokens(ctx context.Context, userID string) error {
	keys := []string{
		sessionKey(userID, security.TokenKindAccess),
		sessionKey(userID, security.TokenKindRefresh),
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

// Blacklist marks token revoked for its remaining lifetime. An already-expired
// token is skipped so blacklist entries never outlive the token itself.
func (s *RedisStore) Blacklist(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := remainingLifetime(expiresAt, time.Now().UTC())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(token), blacklistValue, ttl).Err(); err != nil {
		return fmt.Errorf("redis set blacklist: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether token is currently revoked.
func (s *RedisStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists blacklist: %w", err)
	}
	return n > 0, nil
}
