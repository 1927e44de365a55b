// Package boltdb implements the cache store on top of a bbolt database file.
package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"slotscraper/internal/cache"
)

var bucketEntries = []byte("entries")

// Store is a cache.Store backed by a single bbolt bucket
type Store struct {
	db *bbolt.DB
}

// New opens the database at dbPath, creating it if needed.
// Opening fails after a second if another process holds the file lock.
func New(dbPath string) (*Store, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	store := &Store{db: db}

	if err := store.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return store, nil
}

func (s *Store) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketEntries); err != nil {
			return fmt.Errorf("failed to create entries bucket: %w", err)
		}
		return nil
	})
}

// Set stores value under key
func (s *Store) Set(_ context.Context, key, value string) error {
	if key == "" {
		return cache.ErrInvalidKey
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEntries).Put([]byte(key), []byte(value))
	})
}

// Get returns the value stored under key
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, cache.ErrInvalidKey
	}

	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketEntries).Get([]byte(key))
		if data == nil {
			return nil
		}
		// data is only valid inside the transaction
		value = string(data)
		found = true
		return nil
	})
	if err != nil {
		return "", false, err
	}

	return value, found, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ cache.Store = (*Store)(nil)
