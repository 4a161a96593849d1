package metadata

import (
	"encoding/json"
	"math"
	"time"
)

// dateKeys is the date fallback chain, highest priority first.
var dateKeys = []string{
	KeyDateTimeOriginal,
	KeyCreateDate,
	TagKey(TagDateTimeOriginal),
	TagKey(TagDateTime),
}

// Resolver turns RawTags into NormalizedMetadata.
type Resolver struct {
	// Location is used for date values that carry no zone. Nil means UTC.
	Location *time.Location
}

// NewResolver creates a Resolver that interprets zone-less dates in loc.
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{Location: loc}
}

// Resolve normalizes raw using UTC for zone-less dates.
func Resolve(raw RawTags) NormalizedMetadata {
	return NewResolver(time.UTC).Resolve(raw)
}

// Resolve normalizes a raw tag dictionary. It never panics and never fails;
// malformed fields are reported as absent.
func (r *Resolver) Resolve(raw RawTags) NormalizedMetadata {
	var md NormalizedMetadata
	if raw == nil {
		return md
	}

	if t, ok := r.resolveDate(raw); ok {
		md.DateTime = &t
	}

	lat, latOK := finiteNumber(raw[KeyLatitude])
	lng, lngOK := finiteNumber(raw[KeyLongitude])
	if latOK && lngOK {
		md.HasLocation = true
		md.Latitude = &lat
		md.Longitude = &lng
	}

	return md
}

func (r *Resolver) resolveDate(raw RawTags) (time.Time, bool) {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	for _, key := range dateKeys {
		if t, ok := ParseTimestamp(raw[key], loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// finiteNumber converts a numeric tag value to float64. Strings, NaN and
// infinities are rejected.
func finiteNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
