// Package cache persists scraped tokens and doctor parameters between runs.
package cache

import (
	"context"
	"errors"
)

// ErrInvalidKey indicates a key that cannot be used as a cache entry name
var ErrInvalidKey = errors.New("invalid cache key")

// Store is a flat key/value store for serialized records.
// Expiry is interpreted by callers, not by the store.
type Store interface {
	// Set writes value under key, replacing any existing value
	Set(ctx context.Context, key, value string) error

	// Get returns the value stored under key.
	// ok is false when nothing is stored; that is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Close releases resources held by the store
	Close() error
}
