package histogram

import (
	"errors"
	"math"
	"time"
)

// DefaultBuckets is used when Build is given a non-positive bucket count.
const DefaultBuckets = 24

// ErrEmptyInput is returned by Build when there are no timestamps.
var ErrEmptyInput = errors.New("histogram: no timestamps")

// Histogram counts timestamps in equal-width buckets over [Min, Max].
type Histogram struct {
	Buckets []int     `json:"buckets"`
	Min     time.Time `json:"min"`
	Max     time.Time `json:"max"`
	StepMs  float64   `json:"stepMs"`
}

// Build buckets timestamps into bucketCount bins.
//
// StepMs is (Max-Min)/bucketCount in milliseconds. A timestamp t lands in
// floor((t-Min)/StepMs), clamped to the last bucket so Max is counted. When
// every timestamp is equal, all of them land in bucket 0.
func Build(timestamps []time.Time, bucketCount int) (Histogram, error) {
	if len(timestamps) == 0 {
		return Histogram{}, ErrEmptyInput
	}
	if bucketCount <= 0 {
		bucketCount = DefaultBuckets
	}

	lo, hi := timestamps[0], timestamps[0]
	for _, t := range timestamps[1:] {
		if t.Before(lo) {
			lo = t
		}
		if t.After(hi) {
			hi = t
		}
	}

	minMs := millis(lo)
	stepMs := (millis(hi) - minMs) / float64(bucketCount)

	h := Histogram{
		Buckets: make([]int, bucketCount),
		Min:     lo,
		Max:     hi,
		StepMs:  stepMs,
	}

	for _, t := range timestamps {
		idx := 0
		if stepMs > 0 {
			idx = int(math.Floor((millis(t) - minMs) / stepMs))
		}
		if idx >= bucketCount {
			idx = bucketCount - 1
		}
		if idx < 0 {
			idx = 0
		}
		h.Buckets[idx]++
	}

	return h, nil
}

// Total returns the number of timestamps counted.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Buckets {
		n += c
	}
	return n
}

// BucketBounds returns the [start, end) window covered by bucket i. The last
// bucket ends at Max. It returns false when i is out of range.
func (h Histogram) BucketBounds(i int) (start, end time.Time, ok bool) {
	if i < 0 || i >= len(h.Buckets) {
		return time.Time{}, time.Time{}, false
	}
	start = h.offset(i)
	if i == len(h.Buckets)-1 {
		return start, h.Max, true
	}
	return start, h.offset(i + 1), true
}

func (h Histogram) offset(i int) time.Time {
	if i == 0 {
		return h.Min
	}
	ms := millis(h.Min) + float64(i)*h.StepMs
	return time.UnixMilli(int64(math.Round(ms))).In(h.Min.Location())
}

// millis works in Unix milliseconds, which cover every time.Time year
// without the overflow UnixNano has outside 1678-2262.
func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}
