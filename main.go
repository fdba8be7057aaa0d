package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auto-thumbnail/internal/handlers"
	"auto-thumbnail/internal/logging"
	"auto-thumbnail/internal/media"
	"auto-thumbnail/internal/memory"
	"auto-thumbnail/internal/metrics"
	"auto-thumbnail/internal/middleware"
	"auto-thumbnail/internal/startup"
	"auto-thumbnail/thumbnailer"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Respect container memory limits before anything allocates
	memory.ApplyFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	if err := media.InitVips(); err != nil {
		logging.Warn("libvips failed to start: %v", err)
	}
	defer media.ShutdownVips()
	deps := startup.LogNativeDependencies()

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
	if deps.PDF {
		metrics.PDFEngineAvailable.Set(1)
	}

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()

	h := handlers.New(config, deps, monitor, thumbnailer.WithObserver(metrics.NewThumbnailObserver()))

	collector := metrics.NewCollector(h.Cache(), time.Minute)
	collector.Start()

	router := setupRouter(h, config.MetricsEnabled)
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	var handler http.Handler = middleware.Logger(loggingConfig)(router)
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan struct{})
	go handleShutdown(srv, monitor, collector, done)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
	<-done
}

func setupRouter(h *handlers.Handlers, metricsEnabled bool) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET", "HEAD")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	if metricsEnabled {
		r.Handle("/metrics", h.MetricsHandler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/thumbnail/{path:.*}", h.GetThumbnail).Methods("GET", "HEAD").Name("thumbnail")

	return r
}

func handleShutdown(srv *http.Server, monitor *memory.Monitor, collector *metrics.Collector, done chan<- struct{}) {
	defer close(done)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownStep("Stopping background workers")
	collector.Stop()
	monitor.Stop()
	startup.LogShutdownStepComplete("Background workers stopped")

	startup.LogShutdownComplete()
}
