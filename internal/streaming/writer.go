package streaming

import (
	"net/http"
	"time"

	"photo-timeline/internal/logging"
)

// ServeHTTP streams events to the client until it disconnects.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := b.Serve(w, r); err != nil && err != ErrClientGone && err != ErrBrokerClosed {
		logging.Debug("Event stream ended: %v", err)
	}
}

// Serve writes the event stream for one client and returns why it ended.
func (b *Broker) Serve(w http.ResponseWriter, r *http.Request) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return ErrStreamingUnsupported
	}

	events, unsubscribe := b.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	sw := &streamWriter{w: w, flusher: flusher, timeout: b.config.WriteTimeout}
	if err := sw.write([]byte(": connected\n\n")); err != nil {
		return err
	}

	var heartbeat <-chan time.Time
	if b.config.HeartbeatInterval > 0 {
		ticker := time.NewTicker(b.config.HeartbeatInterval)
		defer ticker.Stop()
		heartbeat = ticker.C
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return ErrClientGone
		case <-b.done:
			return ErrBrokerClosed
		case ev, ok := <-events:
			if !ok {
				return ErrBrokerClosed
			}
			if err := sw.write(ev.Frame()); err != nil {
				return err
			}
		case <-heartbeat:
			if err := sw.write([]byte(": keep-alive\n\n")); err != nil {
				return err
			}
		}
	}
}

// streamWriter performs flushed writes bounded by a timeout.
type streamWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	timeout time.Duration
}

func (sw *streamWriter) write(p []byte) error {
	resultCh := make(chan error, 1)

	go func() {
		_, err := sw.w.Write(p)
		if err == nil {
			sw.flusher.Flush()
		}
		resultCh <- err
	}()

	timer := time.NewTimer(sw.timeout)
	defer timer.Stop()

	select {
	case err := <-resultCh:
		return err
	case <-timer.C:
		return ErrWriteTimeout
	}
}
