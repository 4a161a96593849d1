package views

import (
	"sort"
	"time"

	"photo-timeline/internal/metadata"
)

// LocationItem is a photo placed on the map.
type LocationItem struct {
	ID       string     `json:"id"`
	Lat      float64    `json:"lat"`
	Lng      float64    `json:"lng"`
	Filename string     `json:"filename"`
	URL      string     `json:"url"`
	DateTime *time.Time `json:"dateTime,omitempty"`
}

// ItemID returns the item's identity for change detection.
func (i LocationItem) ItemID() string { return i.ID }

// TimelineItem is a photo placed on the timeline. Lat and Lng are 0 when
// the photo has no GPS; HasLocation tells the two cases apart.
type TimelineItem struct {
	ID          string    `json:"id"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Filename    string    `json:"filename"`
	URL         string    `json:"url"`
	DateTime    time.Time `json:"dateTime"`
	HasLocation bool      `json:"hasLocation"`
}

// ItemID returns the item's identity for change detection.
func (i TimelineItem) ItemID() string { return i.ID }

// LocationView is the ordered list of located photos.
type LocationView []LocationItem

// DateView is the list of dated photos, ascending by DateTime.
type DateView []TimelineItem

// Index builds both views from records.
func Index(records []metadata.PhotoRecord) (LocationView, DateView) {
	locations := make(LocationView, 0, len(records))
	timeline := make(DateView, 0, len(records))

	for _, r := range records {
		md := r.Metadata
		lat, lng, located := md.Coordinates()

		if located {
			locations = append(locations, LocationItem{
				ID:       r.Filename,
				Lat:      lat,
				Lng:      lng,
				Filename: r.Filename,
				URL:      r.URL,
				DateTime: copyTime(md.DateTime),
			})
		}

		if md.DateTime != nil {
			timeline = append(timeline, TimelineItem{
				ID:          r.Filename,
				Lat:         lat,
				Lng:         lng,
				Filename:    r.Filename,
				URL:         r.URL,
				DateTime:    *md.DateTime,
				HasLocation: located,
			})
		}
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].DateTime.Before(timeline[j].DateTime)
	})

	return locations, timeline
}

// FilterRange returns the items of view whose DateTime lies in [start, end],
// preserving order. A reversed window is swapped.
func FilterRange(view DateView, start, end time.Time) DateView {
	if end.Before(start) {
		start, end = end, start
	}

	out := make(DateView, 0, len(view))
	for _, item := range view {
		if item.DateTime.Before(start) || item.DateTime.After(end) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Timestamps returns the DateTime of every item, in view order.
func Timestamps(view DateView) []time.Time {
	out := make([]time.Time, len(view))
	for i, item := range view {
		out[i] = item.DateTime
	}
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
