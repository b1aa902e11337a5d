// Package config provides 12-factor configuration for the assistant backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags override environment variables (see cmd/assistant).
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting of the command endpoint
//   - Catalog: Application alias catalog file and hot reload
//   - Resolver: Start Menu roots and resolution cache
//   - Reminder: Completed reminder retention, default title
//   - Notify: Notification queue, failure backoff, history, breaker
//
// Environment Variables:
//   - PORT, HOST, LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CATALOG_PATH, CATALOG_WATCH
//   - START_MENU_ROOTS, RESOLVE_CACHE_TTL, RESOLVE_CACHE_SIZE
//   - REMINDER_RETENTION, REMINDER_DEFAULT_TITLE
//   - NOTIFY_QUEUE_SIZE, NOTIFY_BACKOFF, NOTIFY_HISTORY, NOTIFY_APP_ID
//   - NOTIFY_BREAKER_THRESHOLD, NOTIFY_BREAKER_COOLDOWN
package config
