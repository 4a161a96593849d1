package exif

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"photo-timeline/internal/metadata"
)

const (
	typeASCII    = 2
	typeLong     = 4
	typeRational = 5
)

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func ascii(tag uint16, s string) entry {
	b := append([]byte(s), 0)
	return entry{tag: tag, typ: typeASCII, count: uint32(len(b)), data: b}
}

func long(tag uint16, v uint32) entry {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return entry{tag: tag, typ: typeLong, count: 1, data: b}
}

func rationals(tag uint16, vals ...[2]uint32) entry {
	b := make([]byte, 0, 8*len(vals))
	for _, v := range vals {
		b = binary.LittleEndian.AppendUint32(b, v[0])
		b = binary.LittleEndian.AppendUint32(b, v[1])
	}
	return entry{tag: tag, typ: typeRational, count: uint32(len(vals)), data: b}
}

func ifdSize(entries []entry) uint32 {
	size := uint32(2 + 12*len(entries) + 4)
	for _, e := range entries {
		if len(e.data) > 4 {
			size += uint32(len(e.data) + len(e.data)%2)
		}
	}
	return size
}

func writeIFD(buf *bytes.Buffer, base uint32, entries []entry) {
	dataOff := base + uint32(2+12*len(entries)+4)
	var data bytes.Buffer

	_ = binary.Write(buf, binary.LittleEndian, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(buf, binary.LittleEndian, e.tag)
		_ = binary.Write(buf, binary.LittleEndian, e.typ)
		_ = binary.Write(buf, binary.LittleEndian, e.count)
		if len(e.data) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.data)
			buf.Write(inline)
			continue
		}
		_ = binary.Write(buf, binary.LittleEndian, dataOff+uint32(data.Len()))
		data.Write(e.data)
		if len(e.data)%2 == 1 {
			data.WriteByte(0)
		}
	}
	_ = binary.Write(buf, binary.LittleEndian, uint32(0))
	buf.Write(data.Bytes())
}

// buildTIFF lays out a little-endian TIFF with IFD0 followed by optional
// EXIF and GPS sub-IFDs.
func buildTIFF(ifd0, exifIFD, gpsIFD []entry) []byte {
	const (
		exifPointer = 0x8769
		gpsPointer  = 0x8825
	)

	if len(exifIFD) > 0 {
		ifd0 = append(ifd0, long(exifPointer, 0))
	}
	if len(gpsIFD) > 0 {
		ifd0 = append(ifd0, long(gpsPointer, 0))
	}

	off0 := uint32(8)
	offExif := off0 + ifdSize(ifd0)
	offGPS := offExif + ifdSize(exifIFD)

	for i := range ifd0 {
		switch ifd0[i].tag {
		case exifPointer:
			ifd0[i] = long(exifPointer, offExif)
		case gpsPointer:
			ifd0[i] = long(gpsPointer, offGPS)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("II*\x00")
	_ = binary.Write(&buf, binary.LittleEndian, off0)
	writeIFD(&buf, off0, ifd0)
	if len(exifIFD) > 0 {
		writeIFD(&buf, offExif, exifIFD)
	}
	if len(gpsIFD) > 0 {
		writeIFD(&buf, offGPS, gpsIFD)
	}
	return buf.Bytes()
}

func writePhoto(t *testing.T, name string, data []byte) metadata.FileRef {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return metadata.FileRef{Filename: name, URL: "/photos/" + name, Path: p}
}

func fullPhoto() []byte {
	return buildTIFF(
		[]entry{
			ascii(0x010f, "Canon"),
			ascii(0x0110, "EOS R6"),
			ascii(0x0132, "2023:06:02 10:00:00"),
		},
		[]entry{
			ascii(0x9003, "2023:06:01 09:30:15"),
			ascii(0x9004, "2023:06:01 09:30:16"),
		},
		[]entry{
			ascii(0x0001, "N"),
			rationals(0x0002, [2]uint32{37, 1}, [2]uint32{46, 1}, [2]uint32{30, 1}),
			ascii(0x0003, "W"),
			rationals(0x0004, [2]uint32{122, 1}, [2]uint32{25, 1}, [2]uint32{12, 1}),
		},
	)
}

func TestDecodeFullPhoto(t *testing.T) {
	ref := writePhoto(t, "full.tif", fullPhoto())

	tags, err := NewDecoder().Decode(context.Background(), ref)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	strTests := []struct {
		key  string
		want string
	}{
		{metadata.KeyDateTimeOriginal, "2023:06:01 09:30:15"},
		{metadata.KeyCreateDate, "2023:06:01 09:30:16"},
		{"36867", "2023:06:01 09:30:15"},
		{"306", "2023:06:02 10:00:00"},
		{"Make", "Canon"},
		{"Model", "EOS R6"},
	}
	for _, tt := range strTests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := tags[tt.key].(string)
			if !ok {
				t.Fatalf("tags[%q] = %#v, want string", tt.key, tags[tt.key])
			}
			if got != tt.want {
				t.Errorf("tags[%q] = %q, want %q", tt.key, got, tt.want)
			}
		})
	}

	lat, _ := tags[metadata.KeyLatitude].(float64)
	lng, _ := tags[metadata.KeyLongitude].(float64)
	if math.Abs(lat-37.775) > 1e-9 {
		t.Errorf("latitude = %v, want 37.775", lat)
	}
	if math.Abs(lng+122.42) > 1e-9 {
		t.Errorf("longitude = %v, want -122.42", lng)
	}

	md := metadata.Resolve(tags)
	if !md.HasLocation {
		t.Error("resolved HasLocation = false, want true")
	}
	want := time.Date(2023, 6, 1, 9, 30, 15, 0, time.UTC)
	if md.DateTime == nil || !md.DateTime.Equal(want) {
		t.Errorf("resolved DateTime = %v, want %v", md.DateTime, want)
	}
}

func TestDecodeIFD0Only(t *testing.T) {
	ref := writePhoto(t, "plain.tif", buildTIFF(
		[]entry{ascii(0x0132, "2020:01:01 00:00:00")}, nil, nil,
	))

	tags, err := NewDecoder().Decode(context.Background(), ref)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if _, ok := tags[metadata.KeyDateTimeOriginal]; ok {
		t.Error("DateTimeOriginal should be absent")
	}
	if _, ok := tags[metadata.KeyLatitude]; ok {
		t.Error("latitude should be absent")
	}

	md := metadata.Resolve(tags)
	if md.HasLocation {
		t.Error("HasLocation = true, want false")
	}
	if md.DateTime == nil || md.DateTime.Year() != 2020 {
		t.Errorf("DateTime = %v, want 2020 fallback from tag 306", md.DateTime)
	}
}

func TestDecodeWithoutExif(t *testing.T) {
	dec := NewDecoder()

	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"png", "plain.png", []byte("\x89PNG\r\n\x1a\nnot really")},
		{"webp", "plain.webp", []byte("RIFF\x10\x00\x00\x00WEBPVP8 ")},
		{"jpeg without app1", "bare.jpg", []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x04, 0x00, 0x00, 0xFF, 0xD9}},
		{"app1 without exif marker", "xmp.jpg", []byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x06, 'h', 't', 't', 'p'}},
		{"empty file", "empty.jpg", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := writePhoto(t, tt.filename, tt.data)
			tags, err := dec.Decode(context.Background(), ref)
			if err != nil {
				t.Fatalf("Decode() error = %v, want nil", err)
			}
			if tags == nil || len(tags) != 0 {
				t.Errorf("Decode() tags = %v, want empty", tags)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	dec := NewDecoder()

	t.Run("corrupt exif", func(t *testing.T) {
		ref := writePhoto(t, "broken.tif", []byte("II*\x00\xff\xff\xff\x7f"))
		if _, err := dec.Decode(context.Background(), ref); err == nil {
			t.Error("Decode() error = nil, want error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		ref := metadata.FileRef{Filename: "gone.jpg", Path: filepath.Join(t.TempDir(), "gone.jpg")}
		if _, err := dec.Decode(context.Background(), ref); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Decode() error = %v, want ErrNotExist", err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ref := writePhoto(t, "full.tif", fullPhoto())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := dec.Decode(ctx, ref); !errors.Is(err, context.Canceled) {
			t.Errorf("Decode() error = %v, want context.Canceled", err)
		}
	})
}
