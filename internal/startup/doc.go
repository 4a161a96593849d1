// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// Configuration is read through github.com/spf13/viper by [LoadConfig].
// Environment variables take precedence over an optional config file named
// by CONFIG_FILE (TOML or YAML, keys in lowercase), which takes precedence
// over the defaults:
//
//   - PHOTOS_DIR: Path to the photo directory (default: ./photos)
//   - PHOTOS_URL_PREFIX: URL prefix the photos are served under (default: /photos)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - RELOAD_INTERVAL: Periodic reload interval as Go duration, 0 disables (default: 30m)
//   - WATCH_ENABLED: Reload when the photo directory changes (default: true)
//   - WATCH_DEBOUNCE: Quiet period before a watch-triggered reload (default: 2s)
//   - RECURSIVE: Include photos in subdirectories (default: false)
//   - TIMEZONE: IANA zone for timestamps without an offset (default: UTC)
//   - HISTOGRAM_BUCKETS: Default timeline histogram resolution (default: 24)
//   - LOG_STATIC_FILES: Log static file requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// LOG_LEVEL and LOG_JSON are read by the logging package, DECODE_WORKERS by
// the workers package.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Lifecycle Logging
//
//   - [LogIndexerInit]: Load cycle triggers
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated], [LogShutdownComplete]: Graceful shutdown
package startup
