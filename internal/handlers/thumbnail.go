package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"auto-thumbnail/internal/filesystem"
	"auto-thumbnail/internal/logging"
	"auto-thumbnail/internal/mediatypes"
	"auto-thumbnail/internal/metrics"
	"auto-thumbnail/thumbnailer"

	"github.com/gorilla/mux"
)

// GetThumbnail serves a thumbnail for the media file named by the path
// variable. The optional size and format query parameters override the
// configured defaults.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	relPath := mux.Vars(r)["path"]
	if relPath == "" {
		http.Error(w, "Path is required", http.StatusBadRequest)
		return
	}

	fullPath, ok := h.resolve(relPath)
	if !ok {
		logging.Warn("Thumbnail: path outside media dir: %s", relPath)
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	size := h.size
	if v := r.URL.Query().Get("size"); v != "" {
		parsed, err := thumbnailer.ParseSize(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if parsed.Width > MaxSize.Width || parsed.Height > MaxSize.Height {
			http.Error(w, fmt.Sprintf("size %s exceeds %dx%d", parsed, MaxSize.Width, MaxSize.Height), http.StatusBadRequest)
			return
		}
		size = parsed
	}

	format := h.format
	if v := r.URL.Query().Get("format"); v != "" {
		parsed, err := mediatypes.ParseEncoding(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = parsed
	}

	info, err := filesystem.StatWithRetry(fullPath, h.retry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "File not found", http.StatusNotFound)
		} else {
			logging.Error("Thumbnail: failed to stat %s: %v", fullPath, err)
			http.Error(w, "Failed to access file", http.StatusInternalServerError)
		}
		return
	}
	if info.IsDir() {
		http.Error(w, "Cannot generate thumbnail for directory", http.StatusBadRequest)
		return
	}

	key := Key(filepath.ToSlash(relPath), info.ModTime(), info.Size(), size, format, h.quality)
	unlock := h.cache.Lock(key)
	defer unlock()

	if cached, ok := h.cache.Lookup(key, format); ok {
		metrics.CacheHits.Inc()
		logging.Debug("Thumbnail: cache hit for %s (%s, %s)", relPath, size, format)
		h.serveThumbnail(w, r, cached, format, "HIT")
		return
	}
	metrics.CacheMisses.Inc()

	if h.memory != nil {
		if err := h.memory.Wait(r.Context()); err != nil {
			http.Error(w, "Request cancelled while waiting for memory", http.StatusServiceUnavailable)
			return
		}
	}

	t, err := h.thumbnailerFor(size)
	if err != nil {
		logging.Error("Thumbnail: %v", err)
		http.Error(w, "Failed to initialise thumbnailer", http.StatusInternalServerError)
		return
	}

	output, cleanup, err := h.cache.Store(key, format, func(output string) error {
		return t.CreateThumbnail(fullPath, output)
	})
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logging.Error("Thumbnail: generation failed for %s: %v", relPath, err)
		} else {
			logging.Debug("Thumbnail: %s: %v", relPath, err)
		}
		http.Error(w, errorMessage(err, status), status)
		return
	}
	defer cleanup()

	logging.Debug("Thumbnail: created %s (%s, %s)", relPath, size, format)
	h.serveThumbnail(w, r, output, format, "MISS")
}

func (h *Handlers) serveThumbnail(w http.ResponseWriter, r *http.Request, path string, format mediatypes.Encoding, cacheStatus string) {
	f, err := filesystem.OpenWithRetry(path, h.retry)
	if err != nil {
		logging.Error("Thumbnail: failed to open %s: %v", path, err)
		http.Error(w, "Failed to read thumbnail", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "Failed to read thumbnail", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Thumbnail-Cache", cacheStatus)
	http.ServeContent(w, r, filepath.Base(path), info.ModTime(), f)
}

// resolve joins relPath onto the media directory and rejects results that
// escape it.
func (h *Handlers) resolve(relPath string) (string, bool) {
	fullPath, err := filepath.Abs(filepath.Join(h.mediaDir, filepath.FromSlash(relPath)))
	if err != nil {
		return "", false
	}
	return fullPath, isSubPath(h.mediaDir, fullPath)
}

func isSubPath(parent, child string) bool {
	parent, _ = filepath.Abs(parent)
	child, _ = filepath.Abs(child)
	return child == parent || strings.HasPrefix(child, parent+string(filepath.Separator))
}

// statusForError maps a creation error to an HTTP status.
func statusForError(err error) int {
	switch {
	case errors.Is(err, thumbnailer.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, thumbnailer.ErrInit):
		return http.StatusServiceUnavailable
	case errors.Is(err, thumbnailer.ErrDecode):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the client-facing text for a creation error. Only the
// unsupported-type message is passed through since the others name server
// paths.
func errorMessage(err error, status int) string {
	if errors.Is(err, thumbnailer.ErrUnsupported) {
		var terr *thumbnailer.Error
		if errors.As(err, &terr) {
			return terr.Error()
		}
	}
	return "Failed to generate thumbnail: " + http.StatusText(status)
}
