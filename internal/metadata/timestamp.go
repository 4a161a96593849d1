package metadata

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Layouts without a zone are interpreted in
// the resolver's location.
var dateLayouts = []string{
	"2006:01:02 15:04:05",
	"2006:01:02 15:04:05.999999999",
	"2006:01:02 15:04:05Z07:00",
	"2006:01:02 15:04:05.999999999Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// ParseTimestamp parses a raw date tag value. It accepts time.Time, string and
// []byte values and reports false for anything that is empty, zeroed or not a
// recognizable date.
func ParseTimestamp(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val, true
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return *val, true
	case []byte:
		return parseDateString(string(val), loc)
	case string:
		return parseDateString(val, loc)
	default:
		return time.Time{}, false
	}
}

func parseDateString(s string, loc *time.Location) (time.Time, bool) {
	// EXIF ASCII values are frequently NUL padded.
	s = strings.TrimSpace(strings.Trim(s, "\x00"))
	if s == "" || strings.HasPrefix(s, "0000") {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
