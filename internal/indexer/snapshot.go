package indexer

import (
	"time"

	"photo-timeline/internal/metadata"
	"photo-timeline/internal/metrics"
	"photo-timeline/internal/views"
)

// Snapshot is the published result of one load cycle. It is never modified
// after publication.
type Snapshot struct {
	CycleID   string                 `json:"cycleId"`
	Sequence  uint64                 `json:"sequence"`
	LoadedAt  time.Time              `json:"loadedAt"`
	Duration  time.Duration          `json:"duration"`
	Records   []metadata.PhotoRecord `json:"records"`
	Locations views.LocationView     `json:"locations"`
	Timeline  views.DateView         `json:"timeline"`
	Failures  int                    `json:"failures"`
}

// emptySnapshot is served before the first cycle completes.
var emptySnapshot = &Snapshot{
	Records:   []metadata.PhotoRecord{},
	Locations: views.LocationView{},
	Timeline:  views.DateView{},
}

// Stats summarizes the snapshot.
func (s *Snapshot) Stats() metrics.Stats {
	return metrics.Stats{
		TotalPhotos:   len(s.Records),
		WithLocation:  len(s.Locations),
		WithDate:      len(s.Timeline),
		DecodeFailure: s.Failures,
	}
}
