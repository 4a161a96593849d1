package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup.
func InitializeMetrics() {
	for _, status := range []string{"success", "error", "superseded"} {
		LoadCyclesTotal.WithLabelValues(status)
	}

	for _, trigger := range []string{"startup", "periodic", "watch", "manual"} {
		LoadCycleTriggersTotal.WithLabelValues(trigger)
	}

	for _, status := range []string{"success", "failure"} {
		DecodesTotal.WithLabelValues(status)
	}

	for _, view := range []string{"locations", "timeline"} {
		ViewItems.WithLabelValues(view)
		ViewNotificationsTotal.WithLabelValues(view)
		ViewNotificationsSuppressed.WithLabelValues(view)
		EventsPublishedTotal.WithLabelValues(view)
		EventsDroppedTotal.WithLabelValues(view)
	}

	for _, kind := range []string{"total", "located", "dated", "failed"} {
		LibraryPhotos.WithLabelValues(kind)
	}

	for _, op := range []string{"create", "write", "remove", "rename", "chmod", "unknown"} {
		WatcherEventsTotal.WithLabelValues(op)
	}

	for _, op := range []string{"stat", "open", "readdir"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
		FilesystemRetryDuration.WithLabelValues(op)
	}
}
