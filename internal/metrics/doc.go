// Package metrics provides Prometheus instrumentation for the photo timeline service.
//
// All metrics are prefixed with "photo_timeline_" and registered with the
// default registry through promauto, so they are exported by promhttp.Handler.
//
// # Metric Categories
//
// ## HTTP Metrics
//   - HTTPRequestsTotal: Counter of requests by method, path and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of requests currently being served
//
// ## Load Cycle Metrics
//   - LoadCyclesTotal: Counter of load cycles by status (success, error, superseded)
//   - LoadCycleDuration: Histogram of load cycle duration
//   - LoadCycleLastTimestamp: Gauge of the last successful load
//   - LoadCycleRunning: Gauge, 1 while a load cycle is in progress
//   - LoadCycleTriggersTotal: Counter of load cycles by trigger
//
// ## Decode Metrics
//   - DecodesTotal: Counter of per-file decodes by status (success, failure)
//   - DecodeDuration: Histogram of per-file decode duration
//
// ## View Metrics
//   - ViewItems: Gauge of items per view (locations, timeline)
//   - ViewNotificationsTotal: Counter of change notifications delivered per view
//   - ViewNotificationsSuppressed: Counter of unchanged views that did not notify
//   - LibraryPhotos: Gauge of photos in the current snapshot by kind
//
// ## Watcher Metrics
//   - WatcherEventsTotal: Counter of filesystem events by operation
//   - WatcherErrors: Counter of watcher errors
//
// ## Filesystem Metrics
//   - FilesystemRetryAttempts, FilesystemRetrySuccess, FilesystemRetryFailures,
//     FilesystemStaleErrors, FilesystemRetryDuration: ESTALE retry behaviour by operation
//
// # Usage
//
// Metrics are recorded at the call site:
//
//	metrics.DecodesTotal.WithLabelValues("success").Inc()
//
// Call InitializeMetrics once at startup so every label combination is
// exported from the first scrape.
package metrics
