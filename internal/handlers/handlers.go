package handlers

import (
	"context"

	"photo-timeline/internal/indexer"
	"photo-timeline/internal/logging"
	"photo-timeline/internal/metadata"
	"photo-timeline/internal/startup"
	"photo-timeline/internal/views"
)

// Indexer is the part of the indexer the handlers read from.
type Indexer interface {
	Snapshot() *indexer.Snapshot
	GetHealthStatus() indexer.HealthStatus
	IsReady() bool
	TriggerLoad()
	SetOnLocationViewChange(fn func(views.LocationView))
	SetOnDateViewChange(fn func(views.DateView))
}

// Library resolves request filenames to files in the photo directory.
type Library interface {
	Resolve(filename string) (metadata.FileRef, error)
}

// MetadataFetcher decodes a single file on demand.
type MetadataFetcher interface {
	FetchOne(ctx context.Context, ref metadata.FileRef) (metadata.PhotoRecord, error)
}

// Publisher delivers view change events to connected clients.
type Publisher interface {
	Publish(name string, v interface{}) error
}

// Event names sent on the event stream.
const (
	EventLocations = "locations"
	EventTimeline  = "timeline"
)

type Handlers struct {
	indexer          Indexer
	library          Library
	fetcher          MetadataFetcher
	events           Publisher
	histogramBuckets int
}

// New creates the handlers and subscribes the event stream to the
// indexer's view change callbacks.
func New(idx Indexer, lib Library, f MetadataFetcher, events Publisher, config *startup.Config) *Handlers {
	h := &Handlers{
		indexer:          idx,
		library:          lib,
		fetcher:          f,
		events:           events,
		histogramBuckets: config.HistogramBuckets,
	}

	if events != nil {
		idx.SetOnLocationViewChange(func(v views.LocationView) {
			h.publish(EventLocations, v)
		})
		idx.SetOnDateViewChange(func(v views.DateView) {
			h.publish(EventTimeline, v)
		})
	}

	return h
}

func (h *Handlers) publish(name string, v interface{}) {
	if err := h.events.Publish(name, v); err != nil {
		logging.Warn("Failed to publish %s event: %v", name, err)
	}
}
