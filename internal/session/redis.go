package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omarantar7/dentalcare-admin/internal/domain"
)

// RedisConfig holds Redis connection configuration for the session backend.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the Redis address string.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewRedisClient creates a new Redis client and verifies the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// redisCmdable is the subset of redis.Client commands the store uses.
// Narrowing the dependency keeps the store testable without a live server.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore persists one scope's session in Redis under a scope-prefixed
// key namespace with a TTL, so multiple gateway instances can share scopes
// and abandoned sessions expire on their own.
type RedisStore struct {
	client redisCmdable
	scope  string
	ttl    time.Duration
}

// NewRedisStore creates a store for the given scope ID.
func NewRedisStore(client redisCmdable, scopeID string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, scope: scopeID, ttl: ttl}
}

func (s *RedisStore) key(name string) string {
	return fmt.Sprintf("scope:%s:%s", s.scope, name)
}

// Token returns the cached bearer token, or "" when absent or unreadable.
func (s *RedisStore) Token(ctx context.Context) string {
	val, err := s.client.Get(ctx, s.key(KeyToken)).Result()
	if err != nil {
		return ""
	}
	return val
}

// User returns the cached user, or nil when absent or corrupted.
func (s *RedisStore) User(ctx context.Context) *domain.User {
	raw, err := s.client.Get(ctx, s.key(KeyUser)).Result()
	// A nil user serializes to "null"; read it back as absent.
	if err != nil || raw == "" || raw == "null" {
		return nil
	}

	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}

// SetSession installs token and user. The token is written first so a
// concurrent reader never observes a user without a token.
func (s *RedisStore) SetSession(ctx context.Context, token string, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key(KeyToken), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := s.client.Set(ctx, s.key(KeyUser), string(raw), s.ttl).Err(); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

// SetUser replaces the cached user, leaving the token untouched.
func (s *RedisStore) SetUser(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(KeyUser), string(raw), s.ttl).Err(); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

// Clear removes both values. The user is removed first so a concurrent
// reader never observes a user without a token. Errors are swallowed: the
// keys expire via TTL regardless, and clearing must never fail the caller.
func (s *RedisStore) Clear(ctx context.Context) {
	_ = s.client.Del(ctx, s.key(KeyUser)).Err()
	_ = s.client.Del(ctx, s.key(KeyToken)).Err()
}
