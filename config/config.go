package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// Cache backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
)

// Config represents the application configuration
type Config struct {
	Cache   CacheConfig   `json:"cache"`
	HTTP    HTTPConfig    `json:"http"`
	Display DisplayConfig `json:"display"`
	Logging LoggingConfig `json:"logging"`
}

// CacheConfig selects where tokens and doctor parameters are kept between runs
type CacheConfig struct {
	Backend     string `json:"backend" env:"SLOTSCRAPER_CACHE_BACKEND"`
	Dir         string `json:"dir" env:"SLOTSCRAPER_CACHE_DIR"`
	SQLitePath  string `json:"sqlite_path" env:"SLOTSCRAPER_CACHE_SQLITE_PATH"`
	BoltPath    string `json:"bolt_path" env:"SLOTSCRAPER_CACHE_BOLT_PATH"`
	RedisAddr   string `json:"redis_addr" env:"SLOTSCRAPER_CACHE_REDIS_ADDR"`
	RedisPrefix string `json:"redis_prefix" env:"SLOTSCRAPER_CACHE_REDIS_PREFIX"`
}

// HTTPConfig contains settings for requests to the booking platform
type HTTPConfig struct {
	TimeoutSeconds int    `json:"timeout_seconds" env:"SLOTSCRAPER_HTTP_TIMEOUT_SECONDS"`
	UserAgent      string `json:"user_agent" env:"SLOTSCRAPER_HTTP_USER_AGENT"`
}

// DisplayConfig controls how slot times are rendered
type DisplayConfig struct {
	Locale   string `json:"locale" env:"SLOTSCRAPER_DISPLAY_LOCALE"`
	Timezone string `json:"timezone" env:"SLOTSCRAPER_DISPLAY_TIMEZONE"` // IANA name, "Local", or empty to keep the API offset
}

// LoggingConfig contains log settings
type LoggingConfig struct {
	Level  string `json:"level" env:"SLOTSCRAPER_LOG_LEVEL"`
	Format string `json:"format" env:"SLOTSCRAPER_LOG_FORMAT"` // "auto", "json" or "text"
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     os.TempDir(),
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; rv:109.0) Gecko/20100101 Firefox/116.0",
		},
		Display: DisplayConfig{
			Locale: "pl_PL",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendSQLite, BackendBolt:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("%w: redis address is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache backend %q", ErrInvalidConfig, c.Cache.Backend)
	}

	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: http timeout must be positive", ErrInvalidConfig)
	}

	if c.Display.Locale == "" {
		return fmt.Errorf("%w: display locale is required", ErrInvalidConfig)
	}

	if _, err := c.Display.Location(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}

	switch c.Logging.Format {
	case "auto", "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Logging.Format)
	}

	return nil
}

// Timeout returns the HTTP timeout as a duration
func (c HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Location resolves the display timezone. A nil location means slot times keep their own offset.
func (c DisplayConfig) Location() (*time.Location, error) {
	switch c.Timezone {
	case "":
		return nil, nil
	case "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SQLiteFile returns the SQLite database path, defaulting to a file in the cache directory
func (c CacheConfig) SQLiteFile() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return filepath.Join(c.dir(), "slotscraper.db")
}

// BoltFile returns the bbolt database path, defaulting to a file in the cache directory
func (c CacheConfig) BoltFile() string {
	if c.BoltPath != "" {
		return c.BoltPath
	}
	return filepath.Join(c.dir(), "slotscraper.bolt")
}

func (c CacheConfig) dir() string {
	if c.Dir == "" {
		return os.TempDir()
	}
	return c.Dir
}

// Load loads configuration from a JSON file layered over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigFileNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFromEnv loads configuration from SLOTSCRAPER_* environment variables layered over the defaults
func LoadFromEnv() (*Config, error) {
	config := Default()
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
