package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"photo-timeline/internal/exif"
	"photo-timeline/internal/fetcher"
	"photo-timeline/internal/filesystem"
	"photo-timeline/internal/handlers"
	"photo-timeline/internal/indexer"
	"photo-timeline/internal/library"
	"photo-timeline/internal/logging"
	"photo-timeline/internal/metadata"
	"photo-timeline/internal/metrics"
	"photo-timeline/internal/middleware"
	"photo-timeline/internal/startup"
	"photo-timeline/internal/streaming"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Metrics
	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, runtime.Version())
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	// Pipeline components
	lib := library.New(library.Options{
		Dir:       config.PhotosDir,
		URLPrefix: config.PhotosURLPrefix,
		Recursive: config.Recursive,
	})
	fetch := fetcher.New(exif.NewDecoder(), fetcher.Options{
		Resolver: metadata.NewResolver(config.Location),
	})

	// Initialize indexer
	startup.LogIndexerInit(config)
	idx := indexer.New(lib, fetch, indexer.Config{
		ReloadInterval: config.ReloadInterval,
		WatchDir:       config.PhotosDir,
		Watch:          config.WatchEnabled,
		WatchRecursive: config.Recursive,
		Debounce:       config.WatchDebounce,
	})

	// Event stream and handlers are wired before the first load so that
	// clients connecting early receive its views.
	events := streaming.NewBroker(streaming.DefaultConfig())
	h := handlers.New(idx, lib, fetch, events, config)

	if err := idx.Start(); err != nil {
		startup.LogFatal("Failed to start indexer: %v", err)
	}
	startup.LogIndexerStarted(fetch.Workers())

	collector := metrics.NewCollector(idx, time.Minute)
	collector.Start()

	// Setup router
	router := setupRouter(h, events, config)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	// Apply compression middleware
	handler := middleware.Compression(middleware.DefaultCompressionConfig())(loggedHandler)

	// Create server. WriteTimeout stays 0 for the event stream.
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = &http.Server{
			Addr:              ":" + config.MetricsPort,
			Handler:           h.MetricsHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, idx, events, collector)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, events http.Handler, config *startup.Config) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/photos", h.ListPhotos).Methods("GET")
	api.HandleFunc("/photos/metadata", h.GetPhotoMetadata).Methods("POST")
	api.HandleFunc("/locations", h.GetLocations).Methods("GET")
	api.HandleFunc("/timeline", h.GetTimeline).Methods("GET")
	api.HandleFunc("/histogram", h.GetHistogram).Methods("GET")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")
	api.HandleFunc("/reload", h.Reload).Methods("POST")
	api.Handle("/events", events).Methods("GET")

	// Photo files
	r.HandleFunc(strings.TrimSuffix(config.PhotosURLPrefix, "/")+"/{path:.*}", h.ServePhoto).Methods("GET", "HEAD")

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, idx *indexer.Indexer, events *streaming.Broker, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping indexer")
	idx.Stop()
	collector.Stop()
	startup.LogShutdownStepComplete("Indexer stopped")

	startup.LogShutdownStep("Closing event streams")
	events.Close()
	startup.LogShutdownStepComplete("Event streams closed")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		}
	}

	startup.LogShutdownComplete()
}
