package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Catalog.Watch)
	assert.Empty(t, cfg.Catalog.Path)
	assert.Equal(t, 30*time.Second, cfg.Resolver.CacheTTL)
	assert.Equal(t, 10*time.Minute, cfg.Reminder.Retention)
	assert.Equal(t, time.Second, cfg.Notify.Backoff)
	assert.Equal(t, 64, cfg.Notify.QueueSize)
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Reminder, cfg.Reminder)
	assert.Equal(t, def.Notify, cfg.Notify)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":               "9000",
		"LOG_LEVEL":          "debug",
		"LOG_DEV":            "true",
		"RATE_LIMIT_ENABLED": "false",
		"CATALOG_PATH":       "/etc/assistant/catalog.toml",
		"START_MENU_ROOTS":   "/a,/b",
		"RESOLVE_CACHE_TTL":  "0s",
		"REMINDER_RETENTION": "1m",
		"NOTIFY_BACKOFF":     "250ms",
		"NOTIFY_QUEUE_SIZE":  "8",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "/etc/assistant/catalog.toml", cfg.Catalog.Path)
	assert.Equal(t, []string{"/a", "/b"}, cfg.Resolver.ShortcutRoots)
	assert.Zero(t, cfg.Resolver.CacheTTL)
	assert.Equal(t, time.Minute, cfg.Reminder.Retention)
	assert.Equal(t, 250*time.Millisecond, cfg.Notify.Backoff)
	assert.Equal(t, 8, cfg.Notify.QueueSize)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("NOTIFY_BACKOFF", "soon")

	_, err := Load()
	assert.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, time.Second, cfg.Notify.Backoff)
}
