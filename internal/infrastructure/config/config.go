package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Catalog   CatalogConfig
	Resolver  ResolverConfig
	Reminder  ReminderConfig
	Notify    NotifyConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"20"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"40"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CatalogConfig locates the application alias catalog. An empty path uses
// the catalog compiled into the binary.
type CatalogConfig struct {
	Path  string `envconfig:"CATALOG_PATH"`
	Watch bool   `envconfig:"CATALOG_WATCH" default:"true"`
}

// ResolverConfig tunes application resolution.
type ResolverConfig struct {
	ShortcutRoots []string      `envconfig:"START_MENU_ROOTS"`
	CacheTTL      time.Duration `envconfig:"RESOLVE_CACHE_TTL" default:"30s"`
	CacheSize     int           `envconfig:"RESOLVE_CACHE_SIZE" default:"128"`
}

// ReminderConfig tunes the reminder scheduler.
type ReminderConfig struct {
	Retention    time.Duration `envconfig:"REMINDER_RETENTION" default:"10m"`
	DefaultTitle string        `envconfig:"REMINDER_DEFAULT_TITLE" default:"提醒"`
}

// NotifyConfig tunes the notification dispatcher.
type NotifyConfig struct {
	QueueSize   int           `envconfig:"NOTIFY_QUEUE_SIZE" default:"64"`
	Backoff     time.Duration `envconfig:"NOTIFY_BACKOFF" default:"1s"`
	HistorySize int           `envconfig:"NOTIFY_HISTORY" default:"200"`
	AppID       string        `envconfig:"NOTIFY_APP_ID" default:"提醒助手"`

	BreakerThreshold int           `envconfig:"NOTIFY_BREAKER_THRESHOLD" default:"5"`
	BreakerCooldown  time.Duration `envconfig:"NOTIFY_BREAKER_COOLDOWN" default:"30s"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "127.0.0.1",
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			Enabled:           true,
		},
		Catalog: CatalogConfig{
			Watch: true,
		},
		Resolver: ResolverConfig{
			CacheTTL:  30 * time.Second,
			CacheSize: 128,
		},
		Reminder: ReminderConfig{
			Retention:    10 * time.Minute,
			DefaultTitle: "提醒",
		},
		Notify: NotifyConfig{
			QueueSize:   64,
			Backoff:     time.Second,
			HistorySize: 200,
			AppID:       "提醒助手",

			BreakerThreshold: 5,
			BreakerCooldown:  30 * time.Second,
		},
	}
}
