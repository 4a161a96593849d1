package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_timeline_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_timeline_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_timeline_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Load cycle metrics
var (
	LoadCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_timeline_load_cycles_total",
			Help: "Total number of load cycles by outcome",
		},
		[]string{"status"}, // "success", "error", "superseded"
	)

	LoadCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photo_timeline_load_cycle_duration_seconds",
			Help:    "Duration of load cycles in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	LoadCycleLastTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_timeline_load_cycle_last_timestamp",
			Help: "Unix timestamp of the last published load cycle",
		},
	)

	LoadCycleRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_timeline_load_cycle_running",
			Help: "Whether a load cycle is currently running (1 = running, 0 = idle)",
		},
	)

	LoadCycleTriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_timeline_load_cycle_triggers_total",
			Help: "Total number of load cycles by trigger",
		},
		[]string{"trigger"}, // "startup", "periodic", "watch", "manual"
	)
)

// Decode metrics
var (
	DecodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_timeline_decodes_total",
			Help: "Total number of per-file metadata decodes by outcome",
		},
		[]string{"status"}, // "success", "failure"
	)

	DecodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photo_timeline_decode_duration_seconds",
			Help:    "Per-file metadata decode duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)
)

// View metrics
var (
	ViewItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_timeline_view_items",
			Help: "Number of items in each derived view",
		},
		[]string{"view"}, // "locations", "timeline"
	)

	ViewNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_timeline_view_notifications_total",
			Help: "Total number of view change notifications delivered",
		},
		[]string{"view"},
	)

	ViewNotificationsSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_timeline_view_notifications_suppressed_total",
			Help: "Total number of view rebuilds whose membership did not change",
		},
		[]string{"view"},
	)

	LibraryPhotos = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_timeline_library_photos",
			Help: "Number of photos in the current snapshot by kind",
		},
		[]string{"kind"}, // "total", "located", "dated", "failed"
	)
)

// Watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_timeline_watcher_events_total",
			Help: "Total number of filesystem watcher events",
		},
		[]string{"op"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_timeline_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)
)

// Event stream metrics
var (
	EventSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_timeline_event_subscribers",
			Help: "Number of connected server-sent event clients",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_timeline_events_published_total",
			Help: "Total number of events published to the event stream",
		},
		[]string{"event"},
	)

	EventsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_timeline_events_dropped_total",
			Help: "Total number of events dropped for slow subscribers",
		},
		[]string{"event"},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_timeline_filesystem_retry_attempts_total",
			Help: "Total number of retried filesystem operations",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_timeline_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_timeline_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_timeline_filesystem_stale_errors_total",
			Help: "Total number of stale file handle errors",
		},
		[]string{"operation"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_timeline_filesystem_retry_duration_seconds",
			Help:    "Duration of filesystem operations including retries",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_timeline_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
