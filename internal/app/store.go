package app

import (
	"context"
	"fmt"

	"slotscraper/config"
	"slotscraper/internal/cache"
	"slotscraper/internal/cache/boltdb"
	"slotscraper/internal/cache/redis"
	"slotscraper/internal/cache/sqlite"
)

// OpenStore opens the cache store selected by the configuration
func OpenStore(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return cache.NewFileStore(cfg.Dir)

	case config.BackendSQLite:
		store, err := sqlite.New(cfg.SQLiteFile())
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
		}
		return store, nil

	case config.BackendBolt:
		store, err := boltdb.New(cfg.BoltFile())
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt cache: %w", err)
		}
		return store, nil

	case config.BackendRedis:
		store := redis.New(redis.NewClient(cfg.RedisAddr), cfg.RedisPrefix)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: unknown cache backend %q", config.ErrInvalidConfig, cfg.Backend)
	}
}
