package handlers

import (
	"sync"
	"time"

	"auto-thumbnail/internal/encode"
	"auto-thumbnail/internal/filesystem"
	"auto-thumbnail/internal/mediatypes"
	"auto-thumbnail/internal/memory"
	"auto-thumbnail/internal/startup"
	"auto-thumbnail/thumbnailer"
)

// MaxSize bounds the size query parameter.
var MaxSize = thumbnailer.SizeLarger

// Handlers serves thumbnails for files under a media directory.
type Handlers struct {
	mediaDir string
	size     thumbnailer.Size
	quality  int
	format   mediatypes.Encoding
	cache    *ThumbnailCache
	memory   *memory.Monitor
	deps     startup.NativeDependencies
	retry    filesystem.RetryConfig
	options  []thumbnailer.Option

	startTime time.Time

	// thumbnailers holds one Thumbnailer per preset box and the configured
	// box. Custom boxes from requests are built per call.
	mu           sync.Mutex
	thumbnailers map[box]*thumbnailer.Thumbnailer
}

type box struct{ width, height int }

func boxOf(s thumbnailer.Size) box { return box{s.Width, s.Height} }

// New creates the handlers. monitor may be nil. opts are applied to every
// Thumbnailer the handlers create, after a shared default encoder.
func New(config *startup.Config, deps startup.NativeDependencies, monitor *memory.Monitor, opts ...thumbnailer.Option) *Handlers {
	shared := thumbnailer.WithEncoder(encode.New(encode.DefaultOptimizer()))

	return &Handlers{
		mediaDir:     config.MediaDir,
		size:         config.Size,
		quality:      config.Quality,
		format:       config.Format,
		cache:        NewThumbnailCache(config.ThumbnailDir, config.ThumbnailCacheEnabled),
		memory:       monitor,
		deps:         deps,
		retry:        filesystem.DefaultRetryConfig(),
		options:      append([]thumbnailer.Option{shared}, opts...),
		startTime:    time.Now(),
		thumbnailers: make(map[box]*thumbnailer.Thumbnailer),
	}
}

// Cache returns the thumbnail cache, which also feeds the metrics collector.
func (h *Handlers) Cache() *ThumbnailCache {
	return h.cache
}

// thumbnailerFor returns the Thumbnailer for size. Presets and the configured
// size are created once and reused.
func (h *Handlers) thumbnailerFor(size thumbnailer.Size) (*thumbnailer.Thumbnailer, error) {
	if !h.reusable(size) {
		return thumbnailer.New(size, h.quality, h.options...)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	key := boxOf(size)
	if t, ok := h.thumbnailers[key]; ok {
		return t, nil
	}
	t, err := thumbnailer.New(size, h.quality, h.options...)
	if err != nil {
		return nil, err
	}
	h.thumbnailers[key] = t
	return t, nil
}

func (h *Handlers) reusable(size thumbnailer.Size) bool {
	if boxOf(size) == boxOf(h.size) {
		return true
	}
	for _, p := range thumbnailer.Presets {
		if boxOf(size) == boxOf(p) {
			return true
		}
	}
	return false
}
