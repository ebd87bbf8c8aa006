// Package cache keeps short-lived JSON snapshots in Redis. A Store built
// without a client does nothing, so callers never branch on whether Redis is
// configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "crm:"

// Store reads and writes JSON values under a common prefix
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore wraps client. client may be nil.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client is attached
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

// Key joins parts into a namespaced cache key
func Key(parts ...string) string {
	return keyPrefix + strings.Join(parts, ":")
}

// GetJSON decodes the value stored at key into dest. It reports false on a miss.
func (s *Store) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}

	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value at key for the configured TTL
func (s *Store) SetJSON(ctx context.Context, key string, value interface{}) error {
	if !s.Enabled() {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Ping checks the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Ping(ctx).Err()
}
