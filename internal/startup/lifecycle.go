package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"time"

	"auto-thumbnail/internal/logging"
	"auto-thumbnail/internal/media"

	"github.com/gorilla/mux"
)

// NativeDependencies records which native tools were found at startup.
type NativeDependencies struct {
	PDF       bool
	PDFEngine string
	FFmpeg    bool
	FFprobe   bool
	Oxipng    bool
}

// LogNativeDependencies probes libvips, ffmpeg, ffprobe and oxipng and logs
// which thumbnail categories will work.
func LogNativeDependencies() NativeDependencies {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("NATIVE DEPENDENCIES")
	logging.Info("------------------------------------------------------------")

	var deps NativeDependencies

	if eng, err := media.AcquireRenderEngine(); err != nil {
		logging.Warn("  PDF rendering unavailable: %v", err)
		logging.Warn("  PDF thumbnails will fail until libvips is built with pdfium or poppler")
	} else {
		deps.PDF = true
		deps.PDFEngine = eng.Version()
		logging.Info("  [OK] libvips %s with PDF support", deps.PDFEngine)
	}

	deps.FFmpeg = checkTool("ffmpeg")
	deps.FFprobe = checkTool("ffprobe")
	if deps.FFmpeg && deps.FFprobe {
		logging.Info("  [OK] ffmpeg and ffprobe are available")
	} else {
		logging.Warn("  Video thumbnails unavailable (ffmpeg: %v, ffprobe: %v)", deps.FFmpeg, deps.FFprobe)
	}

	if _, err := exec.LookPath("oxipng"); err == nil {
		deps.Oxipng = true
		logging.Info("  [OK] oxipng found, PNG output will be optimized with it")
	} else {
		logging.Info("  oxipng not found, PNG output uses the built-in recompressor")
	}

	return deps
}

func checkTool(name string) bool {
	path, err := exec.LookPath(name)
	if err != nil {
		logging.Debug("  %s not found in PATH", name)
		return false
	}
	logging.Debug("  %s path: %s", name, path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, name, "-version").Output()
	if err != nil {
		logging.Warn("  failed to get %s version: %v", name, err)
		return false
	}

	if first, _, _ := strings.Cut(string(output), "\n"); first != "" {
		logging.Debug("  %s version: %s", name, strings.TrimSpace(first))
	}
	return true
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes at debug level
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })

		logging.Debug("  Registered routes (%d total):", len(routes))
		for _, route := range routes {
			logging.Debug("    %-6s %s", route.Method, route.Path)
		}
	}

	if logHealthChecks {
		logging.Info("  Health check logging: ON")
	} else {
		logging.Info("  Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Thumbnails:    http://0.0.0.0:%s/api/thumbnail/{path}", config.Port)
	logging.Info("    Health:        http://0.0.0.0:%s/healthz", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.Port)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	banner := `
------------------------------------------------------------
   ____ _ __  __/ /_____        / /_/ /_  __  ______ ___  / /_
  / __ '/ / / / __/ __ \______/ __/ __ \/ / / / __ '__ \/ __ \
 / /_/ / /_/ / /_/ /_/ /_____/ /_/ / / / /_/ / / / / / / /_/ /
 \__,_/\__,_/\__/\____/      \__/_/ /_/\__,_/_/ /_/ /_/_.___/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}
