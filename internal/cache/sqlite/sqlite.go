// Package sqlite implements the cache store on top of a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"slotscraper/internal/cache"
)

// SQLiteStore implements cache.Store using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and prepares the schema
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Writers from concurrent runs wait instead of failing with SQLITE_BUSY
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate creates the database schema
func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS cache_entries (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Set stores value under key, replacing any previous value
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return cache.ErrInvalidKey
	}

	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, now, now)

	return err
}

// Get returns the value stored under key
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, cache.ErrInvalidKey
	}

	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM cache_entries WHERE key = ?
	`, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ cache.Store = (*SQLiteStore)(nil)
