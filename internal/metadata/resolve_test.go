package metadata

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad test time %q: %v", s, err)
	}
	return parsed
}

func TestResolveNilDictionary(t *testing.T) {
	md := Resolve(nil)
	if md.HasLocation {
		t.Error("HasLocation should be false for nil dictionary")
	}
	if md.Latitude != nil || md.Longitude != nil {
		t.Error("coordinates should be absent for nil dictionary")
	}
	if md.DateTime != nil {
		t.Error("DateTime should be absent for nil dictionary")
	}
}

func TestResolveDateFallbackChain(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawTags
		expected string // RFC3339, empty means absent
	}{
		{
			name: "DateTimeOriginal wins",
			raw: RawTags{
				KeyDateTimeOriginal: "2021:06:01 10:00:00",
				KeyCreateDate:       "2022:06:01 10:00:00",
				"36867":             "2023:06:01 10:00:00",
				"306":               "2024:06:01 10:00:00",
			},
			expected: "2021-06-01T10:00:00Z",
		},
		{
			name: "only CreateDate valid",
			raw: RawTags{
				KeyDateTimeOriginal: "not a date",
				KeyCreateDate:       "2022:03:04 05:06:07",
			},
			expected: "2022-03-04T05:06:07Z",
		},
		{
			name: "empty original falls through to CreateDate",
			raw: RawTags{
				KeyDateTimeOriginal: "",
				KeyCreateDate:       "2022:03:04 05:06:07",
			},
			expected: "2022-03-04T05:06:07Z",
		},
		{
			name: "numeric 36867 after unparseable names",
			raw: RawTags{
				KeyDateTimeOriginal: "garbage",
				KeyCreateDate:       "0000:00:00 00:00:00",
				"36867":             "2019:12:31 23:59:59",
				"306":               "2018:01:01 00:00:00",
			},
			expected: "2019-12-31T23:59:59Z",
		},
		{
			name:     "numeric 306 last resort",
			raw:      RawTags{"306": "2018:01:01 00:00:00"},
			expected: "2018-01-01T00:00:00Z",
		},
		{
			name:     "time.Time value accepted",
			raw:      RawTags{KeyCreateDate: time.Date(2020, 2, 29, 12, 0, 0, 0, time.UTC)},
			expected: "2020-02-29T12:00:00Z",
		},
		{
			name:     "zero time.Time skipped",
			raw:      RawTags{KeyDateTimeOriginal: time.Time{}, "306": "2018:01:01 00:00:00"},
			expected: "2018-01-01T00:00:00Z",
		},
		{
			name:     "byte slice with NUL padding",
			raw:      RawTags{KeyDateTimeOriginal: []byte("2017:07:07 07:07:07\x00")},
			expected: "2017-07-07T07:07:07Z",
		},
		{
			name:     "RFC3339 with offset",
			raw:      RawTags{KeyDateTimeOriginal: "2016-05-05T12:00:00+02:00"},
			expected: "2016-05-05T10:00:00Z",
		},
		{
			name:     "non-string value ignored",
			raw:      RawTags{KeyDateTimeOriginal: 12345},
			expected: "",
		},
		{
			name:     "all candidates invalid",
			raw:      RawTags{KeyDateTimeOriginal: "x", KeyCreateDate: "y", "36867": "z", "306": ""},
			expected: "",
		},
		{
			name:     "no date keys",
			raw:      RawTags{"Make": "Canon"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := Resolve(tt.raw)
			if tt.expected == "" {
				if md.DateTime != nil {
					t.Errorf("DateTime = %v, want absent", md.DateTime)
				}
				return
			}
			if md.DateTime == nil {
				t.Fatalf("DateTime absent, want %s", tt.expected)
			}
			want := mustTime(t, tt.expected)
			if !md.DateTime.Equal(want) {
				t.Errorf("DateTime = %v, want %v", md.DateTime, want)
			}
		})
	}
}

func TestResolverLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	md := NewResolver(loc).Resolve(RawTags{KeyDateTimeOriginal: "2021:01:01 09:00:00"})
	if md.DateTime == nil {
		t.Fatal("DateTime absent")
	}
	want := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	if !md.DateTime.Equal(want) {
		t.Errorf("DateTime = %v, want %v", md.DateTime.UTC(), want)
	}
}

func TestResolveGPS(t *testing.T) {
	tests := []struct {
		name        string
		raw         RawTags
		hasLocation bool
		lat, lng    float64
	}{
		{name: "both floats", raw: RawTags{KeyLatitude: 48.8584, KeyLongitude: 2.2945}, hasLocation: true, lat: 48.8584, lng: 2.2945},
		{name: "negative values", raw: RawTags{KeyLatitude: -33.8568, KeyLongitude: -151.2153}, hasLocation: true, lat: -33.8568, lng: -151.2153},
		{name: "ints", raw: RawTags{KeyLatitude: 10, KeyLongitude: int64(-20)}, hasLocation: true, lat: 10, lng: -20},
		{name: "float32", raw: RawTags{KeyLatitude: float32(1.5), KeyLongitude: float32(2.5)}, hasLocation: true, lat: 1.5, lng: 2.5},
		{name: "json numbers", raw: RawTags{KeyLatitude: json.Number("12.5"), KeyLongitude: json.Number("-7.25")}, hasLocation: true, lat: 12.5, lng: -7.25},
		{name: "zero pair is a real location", raw: RawTags{KeyLatitude: 0.0, KeyLongitude: 0.0}, hasLocation: true},
		{name: "missing longitude", raw: RawTags{KeyLatitude: 48.8}},
		{name: "missing latitude", raw: RawTags{KeyLongitude: 2.2}},
		{name: "NaN latitude", raw: RawTags{KeyLatitude: math.NaN(), KeyLongitude: 2.2}},
		{name: "infinite longitude", raw: RawTags{KeyLatitude: 1.0, KeyLongitude: math.Inf(1)}},
		{name: "string coordinates", raw: RawTags{KeyLatitude: "48.8", KeyLongitude: "2.2"}},
		{name: "nil values", raw: RawTags{KeyLatitude: nil, KeyLongitude: nil}},
		{name: "bad json number", raw: RawTags{KeyLatitude: json.Number("north"), KeyLongitude: 2.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := Resolve(tt.raw)
			if md.HasLocation != tt.hasLocation {
				t.Fatalf("HasLocation = %v, want %v", md.HasLocation, tt.hasLocation)
			}
			if !tt.hasLocation {
				if md.Latitude != nil || md.Longitude != nil {
					t.Errorf("partial pair reported: lat=%v lng=%v", md.Latitude, md.Longitude)
				}
				return
			}
			lat, lng, ok := md.Coordinates()
			if !ok {
				t.Fatal("Coordinates() reported absent")
			}
			if lat != tt.lat || lng != tt.lng {
				t.Errorf("Coordinates() = (%v, %v), want (%v, %v)", lat, lng, tt.lat, tt.lng)
			}
		})
	}
}

func TestTagKey(t *testing.T) {
	if got := TagKey(TagDateTimeOriginal); got != "36867" {
		t.Errorf("TagKey(DateTimeOriginal) = %q, want 36867", got)
	}
	if got := TagKey(TagDateTime); got != "306" {
		t.Errorf("TagKey(DateTime) = %q, want 306", got)
	}
}

func TestParseTimestampRejects(t *testing.T) {
	inputs := []any{nil, "", "   ", "\x00\x00", "0000:00:00 00:00:00", "2021:13:45 99:99:99", 3.14, (*time.Time)(nil)}
	for _, in := range inputs {
		if ts, ok := ParseTimestamp(in, time.UTC); ok {
			t.Errorf("ParseTimestamp(%#v) = %v, want rejection", in, ts)
		}
	}
}

func TestNewRecord(t *testing.T) {
	ref := FileRef{Filename: "a.jpg", URL: "/photos/a.jpg", Path: "/data/a.jpg"}
	rec := NewRecord(ref, NormalizedMetadata{})
	if rec.Filename != "a.jpg" || rec.URL != "/photos/a.jpg" {
		t.Errorf("NewRecord = %+v", rec)
	}
}
