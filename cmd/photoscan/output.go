package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/alpkeskin/gotoon"
	"github.com/ryanuber/columnize"

	"photo-timeline/internal/histogram"
)

// report is the serialized form of a scan. Timestamps are RFC 3339 strings
// so that every output format renders them the same way.
type report struct {
	Dir       string           `json:"dir"`
	Photos    int              `json:"photos"`
	Located   int              `json:"located"`
	Dated     int              `json:"dated"`
	Failures  int              `json:"failures"`
	Locations []locationRow    `json:"locations"`
	Timeline  []timelineRow    `json:"timeline"`
	Histogram *histogramReport `json:"histogram"`
}

type locationRow struct {
	ID       string  `json:"id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	DateTime string  `json:"dateTime"`
}

type timelineRow struct {
	ID          string  `json:"id"`
	DateTime    string  `json:"dateTime"`
	HasLocation bool    `json:"hasLocation"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

type histogramReport struct {
	Min     string `json:"min"`
	Max     string `json:"max"`
	StepMs  int64  `json:"stepMs"`
	Buckets []int  `json:"buckets"`
}

func buildReport(res *scanResult) report {
	r := report{
		Dir:       res.dir,
		Photos:    len(res.records),
		Located:   len(res.locations),
		Dated:     len(res.timeline),
		Failures:  res.failures,
		Locations: make([]locationRow, 0, len(res.locations)),
		Timeline:  make([]timelineRow, 0, len(res.timeline)),
	}

	for _, item := range res.locations {
		row := locationRow{ID: item.ID, Lat: item.Lat, Lng: item.Lng}
		if item.DateTime != nil {
			row.DateTime = item.DateTime.Format(time.RFC3339)
		}
		r.Locations = append(r.Locations, row)
	}

	for _, item := range res.timeline {
		r.Timeline = append(r.Timeline, timelineRow{
			ID:          item.ID,
			DateTime:    item.DateTime.Format(time.RFC3339),
			HasLocation: item.HasLocation,
			Lat:         item.Lat,
			Lng:         item.Lng,
		})
	}

	if h := res.histogram; h != nil {
		r.Histogram = &histogramReport{
			Min:     h.Min.Format(time.RFC3339),
			Max:     h.Max.Format(time.RFC3339),
			StepMs:  int64(math.Round(h.StepMs)),
			Buckets: h.Buckets,
		}
	}

	return r
}

func writeJSONReport(w io.Writer, res *scanResult) error {
	output, err := json.MarshalIndent(buildReport(res), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func writeToonReport(w io.Writer, res *scanResult) error {
	output, err := gotoon.Encode(buildReport(res))
	if err != nil {
		return fmt.Errorf("failed to encode Toon: %w", err)
	}
	fmt.Fprintln(w, output)
	return nil
}

func writeTableReport(w io.Writer, res *scanResult) {
	fmt.Fprintf(w, "Scanned %s\n\n", res.dir)

	if len(res.locations) == 0 {
		fmt.Fprintln(w, "No located photos")
	} else {
		rows := []string{"Photo|Latitude|Longitude|Taken"}
		for _, item := range res.locations {
			taken := "-"
			if item.DateTime != nil {
				taken = item.DateTime.Format(time.RFC3339)
			}
			rows = append(rows, fmt.Sprintf("%s|%.6f|%.6f|%s", item.ID, item.Lat, item.Lng, taken))
		}
		fmt.Fprintln(w, columnize.SimpleFormat(rows))
	}
	fmt.Fprintln(w, "")

	if len(res.timeline) == 0 {
		fmt.Fprintln(w, "No dated photos")
	} else {
		rows := []string{"Taken|Photo|Location"}
		for _, item := range res.timeline {
			where := "-"
			if item.HasLocation {
				where = fmt.Sprintf("%.4f, %.4f", item.Lat, item.Lng)
			}
			rows = append(rows, fmt.Sprintf("%s|%s|%s", item.DateTime.Format(time.RFC3339), item.ID, where))
		}
		fmt.Fprintln(w, columnize.SimpleFormat(rows))
	}
	fmt.Fprintln(w, "")

	writeHistogram(w, res.histogram)
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "%d photos, %d located, %d dated, %d unreadable\n",
		len(res.records), len(res.locations), len(res.timeline), res.failures)
}

// writeHistogram prints one row per bucket with a bar scaled to the fullest bucket.
func writeHistogram(w io.Writer, h *histogram.Histogram) {
	if h == nil {
		fmt.Fprintln(w, "Histogram: no data")
		return
	}

	peak := 0
	for _, c := range h.Buckets {
		if c > peak {
			peak = c
		}
	}

	rows := []string{"From|To|Photos|"}
	for i, c := range h.Buckets {
		start, end, _ := h.BucketBounds(i)
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("#", (c*30+peak-1)/peak)
		}
		rows = append(rows, fmt.Sprintf("%s|%s|%d|%s",
			start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"), c, bar))
	}
	fmt.Fprintln(w, columnize.SimpleFormat(rows))
}
