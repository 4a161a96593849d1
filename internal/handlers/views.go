package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"photo-timeline/internal/histogram"
	"photo-timeline/internal/views"
)

// HistogramResponse is returned by GetHistogram. NoData is set when there
// are no dated photos, in which case the other fields are empty.
type HistogramResponse struct {
	NoData  bool       `json:"noData"`
	Buckets []int      `json:"buckets,omitempty"`
	Min     *time.Time `json:"min,omitempty"`
	Max     *time.Time `json:"max,omitempty"`
	StepMs  int64      `json:"stepMs,omitempty"`
	Total   int        `json:"total"`
}

// StatsResponse summarizes the current snapshot.
type StatsResponse struct {
	TotalPhotos    int       `json:"totalPhotos"`
	WithLocation   int       `json:"withLocation"`
	WithDate       int       `json:"withDate"`
	DecodeFailures int       `json:"decodeFailures"`
	CycleID        string    `json:"cycleId,omitempty"`
	LoadedAt       time.Time `json:"loadedAt,omitempty"`
	LoadDuration   string    `json:"loadDuration,omitempty"`
}

// GetLocations returns the location view.
func (h *Handlers) GetLocations(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.indexer.Snapshot().Locations)
}

// GetTimeline returns the date view, optionally narrowed to ?start=&end=
// (RFC 3339, both inclusive). A missing bound is open.
func (h *Handlers) GetTimeline(w http.ResponseWriter, r *http.Request) {
	view := h.indexer.Snapshot().Timeline

	start, hasStart, err := parseTimeParam(r, "start")
	if err != nil {
		writeJSONError(w, "Invalid start: expected RFC 3339 timestamp", http.StatusBadRequest)
		return
	}
	end, hasEnd, err := parseTimeParam(r, "end")
	if err != nil {
		writeJSONError(w, "Invalid end: expected RFC 3339 timestamp", http.StatusBadRequest)
		return
	}

	if (hasStart || hasEnd) && len(view) > 0 {
		first, last := view[0].DateTime, view[len(view)-1].DateTime
		switch {
		case hasStart && !hasEnd && start.After(last):
			view = views.DateView{}
		case hasEnd && !hasStart && end.Before(first):
			view = views.DateView{}
		default:
			if !hasStart {
				start = first
			}
			if !hasEnd {
				end = last
			}
			view = views.FilterRange(view, start, end)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, view)
}

// GetHistogram buckets the dated photos. ?buckets=N overrides the
// configured bucket count.
func (h *Handlers) GetHistogram(w http.ResponseWriter, r *http.Request) {
	buckets := h.histogramBuckets
	if s := r.URL.Query().Get("buckets"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 1000 {
			writeJSONError(w, "Invalid buckets: expected an integer between 1 and 1000", http.StatusBadRequest)
			return
		}
		buckets = n
	}

	hist, err := histogram.Build(views.Timestamps(h.indexer.Snapshot().Timeline), buckets)
	if errors.Is(err, histogram.ErrEmptyInput) {
		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, HistogramResponse{NoData: true})
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to build histogram", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, HistogramResponse{
		Buckets: hist.Buckets,
		Min:     &hist.Min,
		Max:     &hist.Max,
		StepMs:  int64(math.Round(hist.StepMs)),
		Total:   hist.Total(),
	})
}

// Reload queues a load cycle.
func (h *Handlers) Reload(w http.ResponseWriter, _ *http.Request) {
	h.indexer.TriggerLoad()
	writeJSONStatusCode(w, http.StatusAccepted, map[string]string{"status": "reload queued"})
}

// GetStats returns counts of the current snapshot.
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	snap := h.indexer.Snapshot()
	stats := snap.Stats()

	resp := StatsResponse{
		TotalPhotos:    stats.TotalPhotos,
		WithLocation:   stats.WithLocation,
		WithDate:       stats.WithDate,
		DecodeFailures: stats.DecodeFailure,
		CycleID:        snap.CycleID,
		LoadedAt:       snap.LoadedAt,
	}
	if snap.CycleID != "" {
		resp.LoadDuration = snap.Duration.String()
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, resp)
}

func parseTimeParam(r *http.Request, name string) (time.Time, bool, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
