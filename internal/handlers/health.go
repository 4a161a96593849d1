package handlers

import (
	"net/http"
	"runtime"

	"photo-timeline/internal/startup"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Ready      bool   `json:"ready"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	Loading    bool   `json:"loading"`
	LastLoaded string `json:"lastLoaded,omitempty"`
	CycleID    string `json:"cycleId,omitempty"`
	LastError  string `json:"lastError,omitempty"`

	Photos         int `json:"photos"`
	WithLocation   int `json:"withLocation"`
	WithDate       int `json:"withDate"`
	DecodeFailures int `json:"decodeFailures"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	healthStatus := h.indexer.GetHealthStatus()
	stats := h.indexer.Snapshot().Stats()

	response := HealthResponse{
		Status:         healthStatus.Status,
		Ready:          healthStatus.Ready,
		Version:        startup.Version,
		Uptime:         healthStatus.Uptime,
		Loading:        healthStatus.Loading,
		CycleID:        healthStatus.CycleID,
		LastError:      healthStatus.LastError,
		Photos:         stats.TotalPhotos,
		WithLocation:   stats.WithLocation,
		WithDate:       stats.WithDate,
		DecodeFailures: stats.DecodeFailure,
		GoVersion:      runtime.Version(),
		NumCPU:         runtime.NumCPU(),
		NumGoroutine:   runtime.NumGoroutine(),
	}

	if !healthStatus.LastLoaded.IsZero() {
		response.LastLoaded = healthStatus.LastLoaded.Format("2006-01-02T15:04:05Z07:00")
	}

	// Return 503 only if not ready at all
	status := http.StatusOK
	if !healthStatus.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSONStatusCode(w, status, response)
}

// LivenessCheck answers Kubernetes liveness checks (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 only when the first load cycle has published
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if h.indexer.IsReady() {
		writeJSONStatusCode(w, http.StatusOK, map[string]string{"status": "ready"})
	} else {
		writeJSONStatusCode(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
	}
}
