package indexer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"photo-timeline/internal/logging"
	"photo-timeline/internal/mediatypes"
	"photo-timeline/internal/metrics"
)

const defaultDebounce = 2 * time.Second

// watcher turns fsnotify events under a directory into debounced callbacks.
type watcher struct {
	fsw       *fsnotify.Watcher
	dir       string
	recursive bool
	debounce  time.Duration
	onChange  func()

	mu    sync.Mutex
	timer *time.Timer
}

func newWatcher(dir string, recursive bool, debounce time.Duration, onChange func()) (*watcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot watch %s: not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		metrics.WatcherErrors.Inc()
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &watcher{
		fsw:       fsw,
		dir:       dir,
		recursive: recursive,
		debounce:  debounce,
		onChange:  onChange,
	}

	count := w.addDirectories()
	if count == 0 {
		_ = fsw.Close()
		return nil, fmt.Errorf("no directories could be watched under %s", dir)
	}
	logging.Debug("Watcher started, watching %d directories", count)
	return w, nil
}

// addDirectories registers the root and, when recursive, every visible
// subdirectory.
func (w *watcher) addDirectories() int {
	if !w.recursive {
		if err := w.fsw.Add(w.dir); err != nil {
			logging.Warn("failed to add path to watcher %s: %v", w.dir, err)
			metrics.WatcherErrors.Inc()
			return 0
		}
		return 1
	}

	count := 0
	err := filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			logging.Warn("failed to add path to watcher %s: %v", path, addErr)
			metrics.WatcherErrors.Inc()
		} else {
			count++
		}
		return nil
	})
	if err != nil {
		logging.Error("failed to walk photo directory for watcher: %v", err)
		metrics.WatcherErrors.Inc()
	}
	return count
}

func (w *watcher) run(stop <-chan struct{}) {
	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			logging.Error("failed to close file watcher: %v", err)
		}
	}()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher error: %v", err)
			metrics.WatcherErrors.Inc()

		case <-stop:
			return
		}
	}
}

func (w *watcher) handle(event fsnotify.Event) {
	metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()

	if event.Op&fsnotify.Create != 0 && w.recursive {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !hidden(event.Name) {
			if addErr := w.fsw.Add(event.Name); addErr != nil {
				logging.Warn("failed to add new directory to watcher %s: %v", event.Name, addErr)
				metrics.WatcherErrors.Inc()
			} else {
				logging.Debug("Added new directory to watcher: %s", event.Name)
			}
			w.schedule()
			return
		}
	}

	if relevant(event) {
		w.schedule()
	}
}

// schedule (re)arms the debounce timer.
func (w *watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.onChange)
		return
	}
	w.timer.Reset(w.debounce)
}

// relevant reports whether an event can change the photo list or a photo's
// metadata. Removes and renames of non-photo names may be directories.
func relevant(event fsnotify.Event) bool {
	if hidden(event.Name) || event.Op == fsnotify.Chmod {
		return false
	}
	if mediatypes.IsPhoto(mediatypes.Ext(event.Name)) {
		return true
	}
	return event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && filepath.Ext(event.Name) == ""
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// eventType returns a string representation of the fsnotify operation
func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
