package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"auto-thumbnail/internal/logging"
	"auto-thumbnail/internal/mediatypes"
	"auto-thumbnail/thumbnailer"

	"gopkg.in/yaml.v3"
)

// Config holds all service configuration
type Config struct {
	MediaDir        string
	CacheDir        string
	Port            string
	Size            thumbnailer.Size
	Quality         int
	Format          mediatypes.Encoding
	MetricsEnabled  bool
	LogHealthChecks bool

	// Derived paths
	ThumbnailDir string

	// ThumbnailCacheEnabled is false when the cache directory is not
	// writable; thumbnails are then rendered into a temp dir per request.
	ThumbnailCacheEnabled bool
}

// fileConfig mirrors the YAML config file. Pointer fields distinguish
// "absent" from zero values.
type fileConfig struct {
	MediaDir  string `yaml:"media_dir"`
	CacheDir  string `yaml:"cache_dir"`
	Port      string `yaml:"port"`
	Thumbnail struct {
		Size    string `yaml:"size"`
		Quality *int   `yaml:"quality"`
		Format  string `yaml:"format"`
	} `yaml:"thumbnail"`
	MetricsEnabled  *bool `yaml:"metrics_enabled"`
	LogHealthChecks *bool `yaml:"log_health_checks"`
}

// readConfigFile parses the YAML file at path. Unknown keys are an error so
// typos do not silently fall back to defaults.
func readConfigFile(path string) (*fileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fc fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fc, nil
}

// settings resolves each value from the environment, then the file, then the
// default.
type settings struct {
	getenv func(string) string
	file   *fileConfig
}

func (s settings) str(envKey, fileValue, def string) string {
	if v := s.getenv(envKey); v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return def
}

func (s settings) boolean(envKey string, fileValue *bool, def bool) bool {
	if v := s.getenv(envKey); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err == nil {
			return parsed
		}
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", envKey, v, def)
		return def
	}
	if fileValue != nil {
		return *fileValue
	}
	return def
}

// Load builds a Config from getenv and, when CONFIG_FILE is set, the YAML
// file it names. Directories are resolved to absolute paths but not created.
func Load(getenv func(string) string) (*Config, error) {
	s := settings{getenv: getenv, file: &fileConfig{}}

	if path := getenv("CONFIG_FILE"); path != "" {
		fc, err := readConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		s.file = fc
	}
	fc := s.file

	sizeStr := s.str("THUMBNAIL_SIZE", fc.Thumbnail.Size, thumbnailer.SizeMedium.String())
	size, err := thumbnailer.ParseSize(sizeStr)
	if err != nil {
		return nil, fmt.Errorf("THUMBNAIL_SIZE: %w", err)
	}

	quality := thumbnailer.DefaultQuality
	if v := getenv("THUMBNAIL_QUALITY"); v != "" {
		if quality, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("THUMBNAIL_QUALITY: %q is not a number", v)
		}
	} else if fc.Thumbnail.Quality != nil {
		quality = *fc.Thumbnail.Quality
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("THUMBNAIL_QUALITY: %d is outside 1-100", quality)
	}

	format, err := mediatypes.ParseEncoding(s.str("THUMBNAIL_FORMAT", fc.Thumbnail.Format, mediatypes.JPEG.String()))
	if err != nil {
		return nil, fmt.Errorf("THUMBNAIL_FORMAT: %w", err)
	}

	mediaDir, err := filepath.Abs(s.str("MEDIA_DIR", fc.MediaDir, "/media"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media directory path: %w", err)
	}
	cacheDir, err := filepath.Abs(s.str("CACHE_DIR", fc.CacheDir, "/cache"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}

	return &Config{
		MediaDir:        mediaDir,
		CacheDir:        cacheDir,
		Port:            s.str("PORT", fc.Port, "8080"),
		Size:            size,
		Quality:         quality,
		Format:          format,
		MetricsEnabled:  s.boolean("METRICS_ENABLED", fc.MetricsEnabled, true),
		LogHealthChecks: s.boolean("LOG_HEALTH_CHECKS", fc.LogHealthChecks, false),
		ThumbnailDir:    filepath.Join(cacheDir, "thumbnails"),
	}, nil
}

// LoadConfig loads configuration from the process environment, logs it and
// prepares the cache directory.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	config, err := Load(os.Getenv)
	if err != nil {
		return nil, err
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		logging.Info("  CONFIG_FILE:         %s", path)
	}
	logging.Info("  MEDIA_DIR:           %s", config.MediaDir)
	logging.Info("  CACHE_DIR:           %s", config.CacheDir)
	logging.Info("  PORT:                %s", config.Port)
	logging.Info("  THUMBNAIL_SIZE:      %s (%dx%d)", config.Size, config.Size.Width, config.Size.Height)
	logging.Info("  THUMBNAIL_QUALITY:   %d", config.Quality)
	logging.Info("  THUMBNAIL_FORMAT:    %s", config.Format)
	logging.Info("  METRICS_ENABLED:     %v", config.MetricsEnabled)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", config.LogHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	if err := ensureDirectory(config.MediaDir, "media"); err != nil {
		logging.Warn("  Media directory issue: %v", err)
	}
	config.ThumbnailCacheEnabled = setupOptionalDir(config.ThumbnailDir, "thumbnail cache")

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Thumbnail cache: %s", enabledString(config.ThumbnailCacheEnabled))
	logging.Info("    Metrics:         %s", enabledString(config.MetricsEnabled))

	return config, nil
}

func setupOptionalDir(path, name string) bool {
	logging.Debug("  Setting up %s directory: %s", name, path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		logging.Warn("    Failed to create %s directory: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	if err := testWriteAccess(path); err != nil {
		logging.Warn("    %s directory is not writable: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	logging.Debug("    [OK] %s directory ready", name)
	return true
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}
