package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"photo-timeline/internal/filesystem"
	"photo-timeline/internal/logging"
	"photo-timeline/internal/mediatypes"
	"photo-timeline/internal/metadata"
)

// Options configures an Enumerator.
type Options struct {
	// Dir is the photo directory.
	Dir string
	// URLPrefix is prepended to the escaped relative path, e.g. "/photos".
	URLPrefix string
	// Recursive descends into subdirectories. Filenames are then relative
	// paths using forward slashes.
	Recursive bool
}

// Enumerator lists the photo files of a directory.
type Enumerator struct {
	dir       string
	urlPrefix string
	recursive bool
	retry     filesystem.RetryConfig
}

// New creates an Enumerator.
func New(opts Options) *Enumerator {
	return &Enumerator{
		dir:       opts.Dir,
		urlPrefix: strings.TrimSuffix(opts.URLPrefix, "/"),
		recursive: opts.Recursive,
		retry:     filesystem.DefaultRetryConfig(),
	}
}

// Dir returns the directory being enumerated.
func (e *Enumerator) Dir() string {
	return e.dir
}

// List returns the photo files sorted by filename.
func (e *Enumerator) List(ctx context.Context) ([]metadata.FileRef, error) {
	var refs []metadata.FileRef
	var err error

	if e.recursive {
		refs, err = e.walk(ctx)
	} else {
		refs, err = e.readDir(ctx)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Filename < refs[j].Filename
	})

	logging.Debug("Enumerated %d photos in %s", len(refs), e.dir)
	return refs, nil
}

// Resolve returns the FileRef for a filename previously returned by List.
// It rejects names that escape the photo directory or are not photos.
func (e *Enumerator) Resolve(filename string) (metadata.FileRef, error) {
	clean := path.Clean("/" + filepath.ToSlash(filename))[1:]
	if clean == "" || clean != filepath.ToSlash(filename) || !mediatypes.IsPhoto(mediatypes.Ext(clean)) {
		return metadata.FileRef{}, fmt.Errorf("invalid photo filename %q: %w", filename, fs.ErrInvalid)
	}
	if !e.recursive && strings.Contains(clean, "/") {
		return metadata.FileRef{}, fmt.Errorf("invalid photo filename %q: %w", filename, fs.ErrInvalid)
	}
	for _, part := range strings.Split(clean, "/") {
		if isHidden(part) {
			return metadata.FileRef{}, fmt.Errorf("invalid photo filename %q: %w", filename, fs.ErrInvalid)
		}
	}

	full := filepath.Join(e.dir, filepath.FromSlash(clean))
	info, err := filesystem.StatWithRetry(full, e.retry)
	if err != nil {
		return metadata.FileRef{}, err
	}
	if !info.Mode().IsRegular() {
		return metadata.FileRef{}, fmt.Errorf("%s is not a regular file: %w", filename, fs.ErrNotExist)
	}

	return e.ref(clean, full), nil
}

func (e *Enumerator) readDir(ctx context.Context) ([]metadata.FileRef, error) {
	entries, err := filesystem.ReadDirWithRetry(e.dir, e.retry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Warn("Photo directory %s does not exist, library is empty", e.dir)
			return []metadata.FileRef{}, nil
		}
		return nil, fmt.Errorf("failed to read photo directory %s: %w", e.dir, err)
	}

	refs := make([]metadata.FileRef, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.accept(entry) {
			continue
		}
		name := entry.Name()
		refs = append(refs, e.ref(name, filepath.Join(e.dir, name)))
	}
	return refs, nil
}

func (e *Enumerator) walk(ctx context.Context) ([]metadata.FileRef, error) {
	if _, err := filesystem.StatWithRetry(e.dir, e.retry); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Warn("Photo directory %s does not exist, library is empty", e.dir)
			return []metadata.FileRef{}, nil
		}
		return nil, fmt.Errorf("failed to stat photo directory %s: %w", e.dir, err)
	}

	refs := []metadata.FileRef{}
	err := filepath.WalkDir(e.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != e.dir && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !e.accept(d) {
			return nil
		}
		rel, err := filepath.Rel(e.dir, p)
		if err != nil {
			return err
		}
		refs = append(refs, e.ref(filepath.ToSlash(rel), p))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk photo directory %s: %w", e.dir, err)
	}
	return refs, nil
}

func (e *Enumerator) accept(entry fs.DirEntry) bool {
	if !entry.Type().IsRegular() || isHidden(entry.Name()) {
		return false
	}
	return mediatypes.IsPhoto(mediatypes.Ext(entry.Name()))
}

func (e *Enumerator) ref(name, fullPath string) metadata.FileRef {
	return metadata.FileRef{
		Filename: name,
		URL:      e.urlPrefix + "/" + escapePath(name),
		Path:     fullPath,
	}
}

func escapePath(rel string) string {
	parts := strings.Split(rel, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Exists reports whether the photo directory exists.
func (e *Enumerator) Exists() bool {
	info, err := os.Stat(e.dir)
	return err == nil && info.IsDir()
}
