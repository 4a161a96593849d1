package views

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"photo-timeline/internal/metadata"
)

func ptr[T any](v T) *T { return &v }

func day(d int) time.Time {
	return time.Date(2023, 6, d, 12, 0, 0, 0, time.UTC)
}

func located(name string, lat, lng float64, when *time.Time) metadata.PhotoRecord {
	return metadata.PhotoRecord{
		Filename: name,
		URL:      "/photos/" + name,
		Metadata: metadata.NormalizedMetadata{
			HasLocation: true,
			Latitude:    ptr(lat),
			Longitude:   ptr(lng),
			DateTime:    when,
		},
	}
}

func dated(name string, when time.Time) metadata.PhotoRecord {
	return metadata.PhotoRecord{
		Filename: name,
		URL:      "/photos/" + name,
		Metadata: metadata.NormalizedMetadata{DateTime: ptr(when)},
	}
}

func ids[T interface{ ItemID() string }](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ItemID()
	}
	return out
}

func sampleRecords() []metadata.PhotoRecord {
	return []metadata.PhotoRecord{
		located("a.jpg", 48.85, 2.35, ptr(day(3))),
		dated("b.jpg", day(1)),
		{Filename: "c.jpg", URL: "/photos/c.jpg"},
		located("d.jpg", -33.86, 151.2, nil),
		located("e.jpg", 0, 0, ptr(day(2))),
	}
}

func TestIndex(t *testing.T) {
	locations, timeline := Index(sampleRecords())

	if got, want := ids(locations), []string{"a.jpg", "d.jpg", "e.jpg"}; !reflect.DeepEqual(got, want) {
		t.Errorf("location ids = %v, want %v", got, want)
	}
	if got, want := ids(timeline), []string{"b.jpg", "e.jpg", "a.jpg"}; !reflect.DeepEqual(got, want) {
		t.Errorf("timeline ids = %v, want %v", got, want)
	}

	b := timeline[0]
	if b.Lat != 0 || b.Lng != 0 || b.HasLocation {
		t.Errorf("b.jpg = %+v, want 0/0 without location", b)
	}
	if a := timeline[2]; !a.HasLocation || a.Lat != 48.85 {
		t.Errorf("a.jpg = %+v, want located at 48.85", a)
	}
	if e := timeline[1]; !e.HasLocation {
		t.Error("e.jpg at (0,0) with GPS should keep HasLocation")
	}
	if locations[1].DateTime != nil {
		t.Errorf("d.jpg DateTime = %v, want nil", locations[1].DateTime)
	}
}

func TestIndexEmpty(t *testing.T) {
	locations, timeline := Index(nil)
	if locations == nil || timeline == nil {
		t.Error("Index(nil) should return empty non-nil views")
	}
	if len(locations) != 0 || len(timeline) != 0 {
		t.Errorf("Index(nil) = %v, %v, want empty", locations, timeline)
	}
}

func TestIndexDeterministic(t *testing.T) {
	records := sampleRecords()
	l1, t1 := Index(records)
	l2, t2 := Index(records)

	if !reflect.DeepEqual(l1, l2) || !reflect.DeepEqual(t1, t2) {
		t.Error("Index is not deterministic")
	}
	if len(l1) > 0 && &l1[0] == &l2[0] {
		t.Error("Index reused the location view backing array")
	}
}

func TestIndexStableTies(t *testing.T) {
	records := []metadata.PhotoRecord{
		dated("z.jpg", day(5)),
		dated("y.jpg", day(5)),
		dated("x.jpg", day(4)),
		dated("w.jpg", day(5)),
	}
	_, timeline := Index(records)

	want := []string{"x.jpg", "z.jpg", "y.jpg", "w.jpg"}
	if got := ids(timeline); !reflect.DeepEqual(got, want) {
		t.Errorf("timeline ids = %v, want %v", got, want)
	}
}

func TestIndexDateViewSortedForPermutations(t *testing.T) {
	base := sampleRecords()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		perm := make([]metadata.PhotoRecord, len(base))
		for j, k := range rng.Perm(len(base)) {
			perm[j] = base[k]
		}
		_, timeline := Index(perm)
		for j := 1; j < len(timeline); j++ {
			if timeline[j].DateTime.Before(timeline[j-1].DateTime) {
				t.Fatalf("permutation %d: timeline not sorted at %d: %v", i, j, ids(timeline))
			}
		}
		if len(timeline) != 3 {
			t.Fatalf("permutation %d: len(timeline) = %d, want 3", i, len(timeline))
		}
	}
}

func TestFilterRange(t *testing.T) {
	_, timeline := Index([]metadata.PhotoRecord{
		dated("1", day(1)),
		dated("2", day(2)),
		dated("3", day(3)),
		dated("4", day(4)),
	})

	tests := []struct {
		name       string
		start, end time.Time
		want       []string
	}{
		{"inclusive bounds", day(2), day(3), []string{"2", "3"}},
		{"reversed window", day(3), day(2), []string{"2", "3"}},
		{"everything", day(1).Add(-time.Hour), day(4).Add(time.Hour), []string{"1", "2", "3", "4"}},
		{"empty window", day(5), day(6), []string{}},
		{"single instant", day(4), day(4), []string{"4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterRange(timeline, tt.start, tt.end))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterRange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimestamps(t *testing.T) {
	_, timeline := Index([]metadata.PhotoRecord{dated("b", day(2)), dated("a", day(1))})
	got := Timestamps(timeline)
	want := []time.Time{day(1), day(2)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Timestamps() = %v, want %v", got, want)
	}
}
