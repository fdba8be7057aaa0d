package handlers

import (
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"auto-thumbnail/internal/logging"
	"auto-thumbnail/internal/mediatypes"
	"auto-thumbnail/internal/metrics"
	"auto-thumbnail/thumbnailer"

	"golang.org/x/crypto/blake2b"
)

// ThumbnailCache stores rendered thumbnails under content-addressed names.
// A key changes whenever the source file or the rendering parameters change,
// so entries never need invalidation.
type ThumbnailCache struct {
	dir     string
	enabled bool

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

// NewThumbnailCache creates a cache rooted at dir. A disabled cache renders
// every request into a temporary directory.
func NewThumbnailCache(dir string, enabled bool) *ThumbnailCache {
	return &ThumbnailCache{
		dir:     dir,
		enabled: enabled,
		locks:   make(map[string]*keyLock),
	}
}

// Enabled reports whether thumbnails are kept between requests.
func (c *ThumbnailCache) Enabled() bool {
	return c.enabled
}

// Key derives the cache key for a source file and rendering parameters.
func Key(relPath string, modTime time.Time, fileSize int64, size thumbnailer.Size, format mediatypes.Encoding, quality int) string {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00%dx%d\x00%s\x00%d",
		relPath, modTime.UnixNano(), fileSize, size.Width, size.Height, format, quality)
	return hex.EncodeToString(h.Sum(nil))
}

// Path returns where the thumbnail for key is stored. Entries are spread over
// 256 subdirectories by key prefix.
func (c *ThumbnailCache) Path(key string, format mediatypes.Encoding) string {
	return filepath.Join(c.dir, key[:2], key+format.Extension())
}

// Lock serialises work on key and returns the matching unlock function.
func (c *ThumbnailCache) Lock(key string) func() {
	c.mu.Lock()
	l, ok := c.locks[key]
	if !ok {
		l = &keyLock{}
		c.locks[key] = l
	}
	l.refs++
	c.mu.Unlock()

	l.Lock()

	return func() {
		l.Unlock()

		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, key)
		}
		c.mu.Unlock()
	}
}

// Lookup reports whether a thumbnail for key is already cached.
func (c *ThumbnailCache) Lookup(key string, format mediatypes.Encoding) (string, bool) {
	if !c.enabled {
		return "", false
	}
	path := c.Path(key, format)
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return "", false
	}
	return path, true
}

// Store renders a thumbnail with create into the slot for key. The output is
// written to a temporary name and renamed into place, so readers never see a
// partial file. It returns the final path and a cleanup function that
// removes the file when the cache is disabled.
func (c *ThumbnailCache) Store(key string, format mediatypes.Encoding, create func(output string) error) (string, func(), error) {
	if !c.enabled {
		tmpDir, err := os.MkdirTemp("", "auto-thumbnail-")
		if err != nil {
			return "", nil, fmt.Errorf("create temp dir: %w", err)
		}
		cleanup := func() {
			if err := os.RemoveAll(tmpDir); err != nil {
				logging.Warn("failed to remove temp dir %s: %v", tmpDir, err)
			}
		}
		output := filepath.Join(tmpDir, key+format.Extension())
		if err := create(output); err != nil {
			cleanup()
			return "", nil, err
		}
		return output, cleanup, nil
	}

	final := c.Path(key, format)
	if err := os.MkdirAll(filepath.Dir(final), 0o755); err != nil {
		return "", nil, fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(final), key+"-*"+format.Extension())
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		logging.Warn("failed to close temp file %s: %v", tmpPath, err)
	}

	if err := create(tmpPath); err != nil {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logging.Warn("failed to remove temp file %s: %v", tmpPath, rmErr)
		}
		return "", nil, err
	}
	if err := os.Rename(tmpPath, final); err != nil {
		_ = os.Remove(tmpPath)
		return "", nil, fmt.Errorf("move thumbnail into cache: %w", err)
	}
	return final, func() {}, nil
}

// GetStats walks the cache directory and reports its size.
func (c *ThumbnailCache) GetStats() metrics.Stats {
	var stats metrics.Stats
	if !c.enabled {
		return stats
	}

	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		stats.CacheFiles++
		stats.CacheBytes += info.Size()
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to walk thumbnail cache %s: %v", c.dir, err)
	}
	return stats
}
