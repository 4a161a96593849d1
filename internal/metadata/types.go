package metadata

import (
	"strconv"
	"time"
)

// Well-known keys of a RawTags dictionary.
const (
	KeyDateTimeOriginal = "DateTimeOriginal"
	KeyCreateDate       = "CreateDate"
	KeyLatitude         = "latitude"
	KeyLongitude        = "longitude"
)

// Numeric EXIF/TIFF tag ids used as date fallbacks.
const (
	TagDateTimeOriginal uint16 = 36867 // 0x9003
	TagDateTime         uint16 = 306   // 0x0132
)

// RawTags is the opaque key/value output of a metadata decoder. Keys are tag
// names or decimal tag numbers (see TagKey). A nil RawTags means decoding
// failed upstream.
type RawTags map[string]any

// TagKey returns the dictionary key used for a numeric tag id.
func TagKey(id uint16) string {
	return strconv.FormatUint(uint64(id), 10)
}

// NormalizedMetadata is the resolved view of a single file's metadata.
// Latitude and Longitude are either both set or both nil, and HasLocation
// is true exactly when they are set.
type NormalizedMetadata struct {
	HasLocation bool       `json:"hasLocation"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	DateTime    *time.Time `json:"dateTime,omitempty"`
}

// Coordinates returns the coordinate pair and whether it is present.
func (m NormalizedMetadata) Coordinates() (lat, lng float64, ok bool) {
	if !m.HasLocation || m.Latitude == nil || m.Longitude == nil {
		return 0, 0, false
	}
	return *m.Latitude, *m.Longitude, true
}

// FileRef identifies a file handed out by the enumerator.
type FileRef struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	// Path is the location the decoder reads from. It is never serialized.
	Path string `json:"-"`
}

// PhotoRecord is one file's resolved metadata for a single load cycle.
type PhotoRecord struct {
	Filename string             `json:"filename"`
	URL      string             `json:"url"`
	Metadata NormalizedMetadata `json:"metadata"`
}

// NewRecord builds a PhotoRecord for ref with the given metadata.
func NewRecord(ref FileRef, md NormalizedMetadata) PhotoRecord {
	return PhotoRecord{
		Filename: ref.Filename,
		URL:      ref.URL,
		Metadata: md,
	}
}
