package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"

	"auto-thumbnail/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	// ErrRenderEngineUnavailable means libvips could not be started or has no
	// PDF loader. It is an initialization failure, not a per-file one.
	ErrRenderEngineUnavailable = errors.New("pdf rendering engine unavailable")

	// ErrNotPDF is returned when the renderer loads a file that is not a PDF.
	ErrNotPDF = errors.New("not a PDF document")
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool

	engineMu  sync.Mutex
	engine    *RenderEngine
	engineErr error
)

// InitVips initializes the libvips library. It is idempotent.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// must run before Startup for the level to apply
	level, handler := vipsLogging(logging.GetLevel())
	vips.LoggingSettings(handler, level)

	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// vipsLogging maps our log level onto the libvips verbosity and returns a
// handler that forwards libvips messages to our logger.
func vipsLogging(appLevel logging.LogLevel) (vips.LogLevel, func(string, vips.LogLevel, string)) {
	forward := func(domain string, level vips.LogLevel, msg string) {
		switch level {
		case vips.LogLevelError, vips.LogLevelCritical:
			logging.Error("[%s] %s", domain, msg)
		case vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}

	switch appLevel {
	case logging.LevelDebug:
		return vips.LogLevelInfo, forward
	case logging.LevelWarn:
		return vips.LogLevelError, forward
	case logging.LevelError:
		return vips.LogLevelCritical, forward
	default:
		return vips.LogLevelWarning, forward
	}
}

// ShutdownVips releases libvips. govips cannot be restarted in the same
// process, so this belongs at program exit only.
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// RenderEngine is a handle on a started libvips with PDF support.
type RenderEngine struct {
	version string
}

// AcquireRenderEngine starts libvips on first use and checks for a PDF
// loader. The outcome, success or failure, is cached for the process.
func AcquireRenderEngine() (*RenderEngine, error) {
	engineMu.Lock()
	defer engineMu.Unlock()

	if engine != nil || engineErr != nil {
		return engine, engineErr
	}

	if err := InitVips(); err != nil {
		engineErr = fmt.Errorf("%w: %v", ErrRenderEngineUnavailable, err)
		return nil, engineErr
	}
	if !vips.IsTypeSupported(vips.ImageTypePDF) {
		engineErr = fmt.Errorf("%w: libvips %s has no PDF loader (build it with pdfium or poppler)",
			ErrRenderEngineUnavailable, vips.Version)
		logging.Warn("PDF thumbnails disabled: %v", engineErr)
		return nil, engineErr
	}

	engine = &RenderEngine{version: vips.Version}
	logging.Debug("PDF render engine ready (libvips %s)", engine.version)
	return engine, nil
}

// Version returns the libvips version backing the engine.
func (e *RenderEngine) Version() string {
	return e.version
}

// RenderFirstPage rasterizes page one of the PDF at path at the loader's
// default density.
func (e *RenderEngine) RenderFirstPage(path string) (image.Image, error) {
	if !IsVipsAvailable() {
		return nil, fmt.Errorf("%w: libvips has been shut down", ErrRenderEngineUnavailable)
	}

	params := vips.NewImportParams()
	params.Page.Set(0)
	params.NumPages.Set(1)

	ref, err := vips.LoadImageFromFile(path, params)
	if err != nil {
		return nil, fmt.Errorf("load pdf: %w", err)
	}
	defer ref.Close()

	if ref.Format() != vips.ImageTypePDF {
		return nil, fmt.Errorf("%w: %s", ErrNotPDF, path)
	}

	exportParams := vips.NewPngExportParams()
	exportParams.Compression = 1

	data, _, err := ref.ExportPng(exportParams)
	if err != nil {
		return nil, fmt.Errorf("export rendered page: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode rendered page: %w", err)
	}
	return img, nil
}

// PDFDecoder thumbnails the first page of PDF documents. A nil Engine is
// acquired lazily on first use.
type PDFDecoder struct {
	Engine *RenderEngine
}

// Decode renders the first page of the PDF at path and fits it into the box.
func (d PDFDecoder) Decode(path string, maxWidth, maxHeight int) (image.Image, error) {
	eng := d.Engine
	if eng == nil {
		var err error
		if eng, err = AcquireRenderEngine(); err != nil {
			return nil, err
		}
	}

	page, err := eng.RenderFirstPage(path)
	if err != nil {
		return nil, err
	}

	b := page.Bounds()
	logging.Debug("Rendered first page of %s: %dx%d, fitting to %dx%d",
		path, b.Dx(), b.Dy(), maxWidth, maxHeight)

	return Fit(page, maxWidth, maxHeight), nil
}
