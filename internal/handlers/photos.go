package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"photo-timeline/internal/filesystem"
	"photo-timeline/internal/logging"
	"photo-timeline/internal/mediatypes"
	"photo-timeline/internal/metadata"
)

// maxMetadataRequestBytes bounds the metadata request body.
const maxMetadataRequestBytes = 4096

// PhotoEntry is one photo in the listing.
type PhotoEntry struct {
	Filename string                      `json:"filename"`
	URL      string                      `json:"url"`
	MimeType string                      `json:"mimeType"`
	Metadata metadata.NormalizedMetadata `json:"metadata"`
}

// PhotoListResponse is returned by ListPhotos.
type PhotoListResponse struct {
	Photos []PhotoEntry `json:"photos"`
}

// MetadataRequest is the body of a metadata lookup.
type MetadataRequest struct {
	Filename string `json:"filename"`
}

// MetadataResponse is the resolved metadata of one photo.
type MetadataResponse struct {
	Filename    string                      `json:"filename"`
	URL         string                      `json:"url"`
	HasLocation bool                        `json:"hasLocation"`
	Latitude    *float64                    `json:"latitude,omitempty"`
	Longitude   *float64                    `json:"longitude,omitempty"`
	Metadata    metadata.NormalizedMetadata `json:"metadata"`
}

// ListPhotos returns every photo of the current snapshot with its metadata.
func (h *Handlers) ListPhotos(w http.ResponseWriter, _ *http.Request) {
	snap := h.indexer.Snapshot()

	resp := PhotoListResponse{Photos: make([]PhotoEntry, 0, len(snap.Records))}
	for _, rec := range snap.Records {
		resp.Photos = append(resp.Photos, PhotoEntry{
			Filename: rec.Filename,
			URL:      rec.URL,
			MimeType: mediatypes.GetMimeType(mediatypes.Ext(rec.Filename)),
			Metadata: rec.Metadata,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, resp)
}

// GetPhotoMetadata decodes one photo on demand.
func (h *Handlers) GetPhotoMetadata(w http.ResponseWriter, r *http.Request) {
	var req MetadataRequest
	body := http.MaxBytesReader(w, r.Body, maxMetadataRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		writeJSONError(w, "Filename is required", http.StatusBadRequest)
		return
	}

	ref, err := h.library.Resolve(filename)
	if err != nil {
		if errors.Is(err, fs.ErrInvalid) || errors.Is(err, fs.ErrNotExist) {
			writeJSONError(w, "Photo not found", http.StatusNotFound)
			return
		}
		logging.Error("Failed to resolve %s: %v", filename, err)
		writeJSONError(w, "Failed to read photo", http.StatusInternalServerError)
		return
	}

	rec, err := h.fetcher.FetchOne(r.Context(), ref)
	if err != nil {
		logging.Warn("Failed to read metadata for %s: %v", filename, err)
		writeJSONError(w, "Failed to read metadata", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, MetadataResponse{
		Filename:    rec.Filename,
		URL:         rec.URL,
		HasLocation: rec.Metadata.HasLocation,
		Latitude:    rec.Metadata.Latitude,
		Longitude:   rec.Metadata.Longitude,
		Metadata:    rec.Metadata,
	})
}

// ServePhoto serves a photo file from the library.
func (h *Handlers) ServePhoto(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["path"]

	ref, err := h.library.Resolve(filename)
	if err != nil {
		if errors.Is(err, fs.ErrInvalid) || errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		logging.Error("Failed to resolve %s: %v", filename, err)
		http.Error(w, "Failed to read photo", http.StatusInternalServerError)
		return
	}

	f, err := filesystem.OpenWithRetry(ref.Path, filesystem.DefaultRetryConfig())
	if err != nil {
		logging.Error("Failed to open %s: %v", ref.Path, err)
		http.Error(w, "Failed to read photo", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "Failed to read photo", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mediatypes.GetMimeType(mediatypes.Ext(ref.Filename)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, ref.Filename, info.ModTime(), f)
}
