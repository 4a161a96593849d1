package indexer

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"photo-timeline/internal/fetcher"
	"photo-timeline/internal/library"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"photo created", fsnotify.Event{Name: "/p/a.jpg", Op: fsnotify.Create}, true},
		{"photo written", fsnotify.Event{Name: "/p/a.JPG", Op: fsnotify.Write}, true},
		{"photo removed", fsnotify.Event{Name: "/p/a.heic", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/p/a.jpg", Op: fsnotify.Chmod}, false},
		{"hidden file", fsnotify.Event{Name: "/p/.a.jpg", Op: fsnotify.Create}, false},
		{"text file", fsnotify.Event{Name: "/p/notes.txt", Op: fsnotify.Write}, false},
		{"directory removed", fsnotify.Event{Name: "/p/2023", Op: fsnotify.Remove}, true},
		{"editor swap file", fsnotify.Event{Name: "/p/a.jpg.swp", Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relevant(tt.event); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestEventType(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want string
	}{
		{fsnotify.Create, "create"},
		{fsnotify.Write, "write"},
		{fsnotify.Remove, "remove"},
		{fsnotify.Rename, "rename"},
		{fsnotify.Chmod, "chmod"},
		{fsnotify.Create | fsnotify.Write, "create"},
		{0, "unknown"},
	}

	for _, tt := range tests {
		if got := eventType(tt.op); got != tt.want {
			t.Errorf("eventType(%v) = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatcherDebounces(t *testing.T) {
	var fired atomic.Int32
	w := &watcher{debounce: 30 * time.Millisecond, onChange: func() { fired.Add(1) }}

	for i := 0; i < 5; i++ {
		w.schedule()
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("onChange fired %d times, want 1", got)
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := newWatcher(filepath.Join(t.TempDir(), "missing"), false, 0, func() {}); err == nil {
		t.Error("newWatcher() error = nil for missing directory")
	}
}

func TestWatchTriggersLoad(t *testing.T) {
	dir := t.TempDir()
	idx := New(
		library.New(library.Options{Dir: dir, URLPrefix: "/photos"}),
		fetcher.New(libraryDecoder(), fetcher.Options{Workers: 1}),
		Config{Watch: true, WatchDir: dir, Debounce: 20 * time.Millisecond},
	)
	if err := idx.Start(); err != nil {
		t.Fatal(err)
	}
	defer idx.Stop()

	waitFor := func(cond func(*Snapshot) bool, what string) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for !cond(idx.Snapshot()) {
			if time.Now().After(deadline) {
				t.Fatalf("timed out waiting for %s", what)
			}
			time.Sleep(10 * time.Millisecond)
		}
	}

	waitFor(func(s *Snapshot) bool { return s.Sequence >= 1 }, "initial load")

	if err := os.WriteFile(filepath.Join(dir, "paris.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(func(s *Snapshot) bool { return len(s.Locations) == 1 }, "watch-triggered load")
}
