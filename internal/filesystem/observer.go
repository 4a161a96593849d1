package filesystem

// Observer records filesystem retry metrics. Implementations are provided
// by the metrics package to break the import cycle between filesystem and metrics.
type Observer interface {
	// op is the retried operation: "stat", "open", "readdir".
	ObserveRetryAttempt(op string)
	ObserveRetrySuccess(op string)
	ObserveRetryFailure(op string)
	ObserveRetryDuration(op string, durationSeconds float64)
	ObserveStaleError(op string)
}

type noopObserver struct{}

func (noopObserver) ObserveRetryAttempt(string)           {}
func (noopObserver) ObserveRetrySuccess(string)           {}
func (noopObserver) ObserveRetryFailure(string)           {}
func (noopObserver) ObserveRetryDuration(string, float64) {}
func (noopObserver) ObserveStaleError(string)             {}

// defaultObserver is the package-level observer set at startup.
var defaultObserver Observer = noopObserver{}

// SetObserver sets the package-level metrics observer. Passing nil restores
// the no-op observer.
func SetObserver(o Observer) {
	if o == nil {
		o = noopObserver{}
	}
	defaultObserver = o
}

func observe() Observer {
	return defaultObserver
}
