// Package redis implements the cache store on top of a Redis server,
// letting several machines share one token cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"slotscraper/internal/cache"
)

// DefaultPrefix namespaces cache entries when no prefix is configured
const DefaultPrefix = "slotscraper"

// NewClient creates a single-instance Redis client with short timeouts
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// Store implements cache.Store using Redis string keys
type Store struct {
	client *redis.Client
	prefix string
}

// New creates a Redis-backed store. Entries are stored as "<prefix>:<key>".
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{
		client: client,
		prefix: prefix,
	}
}

func (s *Store) key(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

// Ping checks connectivity to the server
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// Set stores value under key without expiry; token expiry is checked by the caller
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return cache.ErrInvalidKey
	}

	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, cache.ErrInvalidKey
	}

	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, true, nil
}

// Close closes the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}

var _ cache.Store = (*Store)(nil)
