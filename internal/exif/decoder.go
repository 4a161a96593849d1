package exif

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"photo-timeline/internal/filesystem"
	"photo-timeline/internal/metadata"
)

func init() {
	// Maker notes are parsed so vendor IFDs don't abort decoding.
	goexif.RegisterParsers(mknote.All...)
}

// dateFields maps dictionary keys to the EXIF fields they are read from.
var dateFields = []struct {
	key   string
	field goexif.FieldName
}{
	{metadata.KeyDateTimeOriginal, goexif.DateTimeOriginal},
	{metadata.KeyCreateDate, goexif.DateTimeDigitized},
	{metadata.TagKey(metadata.TagDateTimeOriginal), goexif.DateTimeOriginal},
	{metadata.TagKey(metadata.TagDateTime), goexif.DateTime},
}

var infoFields = []goexif.FieldName{goexif.Make, goexif.Model}

// Decoder reads EXIF metadata from files on disk.
type Decoder struct {
	retry filesystem.RetryConfig
}

// NewDecoder creates a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{retry: filesystem.DefaultRetryConfig()}
}

// Decode opens ref.Path and returns its raw tags. Files that carry no EXIF
// segment, such as most PNG and WebP files, yield empty tags and no error.
// Open failures, corrupt EXIF and decoder panics are errors.
func (d *Decoder) Decode(ctx context.Context, ref metadata.FileRef) (tags metadata.RawTags, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := filesystem.OpenWithRetry(ref.Path, d.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", ref.Filename, err)
	}
	defer f.Close()

	// goexif indexes into tag data without bounds checks on some corrupt files.
	defer func() {
		if r := recover(); r != nil {
			tags = nil
			err = fmt.Errorf("exif decoder panicked on %s: %v", ref.Filename, r)
		}
	}()

	x, err := goexif.Decode(f)
	switch {
	case err == nil:
		return extract(x), nil
	case x != nil && !goexif.IsCriticalError(err):
		// Sub-IFD errors still leave IFD0 usable.
		return extract(x), nil
	case isNoExif(err):
		return metadata.RawTags{}, nil
	default:
		return nil, fmt.Errorf("failed to decode exif from %s: %w", ref.Filename, err)
	}
}

// isNoExif reports whether a goexif error means the file has no EXIF
// segment at all. goexif returns bare io.EOF when the APP1 marker scan runs
// off the end of the file and does not wrap its other not-found errors.
func isNoExif(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "failed to find exif intro marker") ||
		strings.Contains(msg, "error reading 4 byte header")
}

func extract(x *goexif.Exif) metadata.RawTags {
	tags := metadata.RawTags{}

	for _, df := range dateFields {
		if v, ok := stringField(x, df.field); ok {
			tags[df.key] = v
		}
	}

	for _, field := range infoFields {
		if v, ok := stringField(x, field); ok {
			tags[string(field)] = strings.TrimSpace(v)
		}
	}

	if lat, lng, err := x.LatLong(); err == nil {
		tags[metadata.KeyLatitude] = lat
		tags[metadata.KeyLongitude] = lng
	}

	return tags
}

func stringField(x *goexif.Exif, field goexif.FieldName) (string, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return "", false
	}
	v, err := tag.StringVal()
	if err != nil {
		return "", false
	}
	return v, true
}
