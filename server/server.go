package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tubemp3/cache"
	"tubemp3/config"
	"tubemp3/core/audio"
	"tubemp3/core/janitor"
	"tubemp3/core/resolver"
	"tubemp3/logger"

	"github.com/gorilla/mux"
)

// NewRouter wires all routes onto a gorilla/mux router with the CORS
// middleware applied router-wide.
func NewRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	router.HandleFunc("/direct-link/{id}", h.DirectLinkHandler).Methods(http.MethodGet)
	router.HandleFunc("/download-mp3/{id}", h.DownloadMP3Handler).Methods(http.MethodGet)
	router.HandleFunc("/batch-download", h.BatchDownloadHandler).Methods(http.MethodPost)
	router.HandleFunc("/video-info/{id}", h.VideoInfoHandler).Methods(http.MethodGet)
	router.HandleFunc("/formats/{id}", h.FormatsHandler).Methods(http.MethodGet)

	// Operational endpoints.
	router.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/cache-stats", h.CacheStatsHandler).Methods(http.MethodGet)
	router.HandleFunc("/clear-cache", h.ClearCacheHandler).Methods(http.MethodPost)

	return router
}

// Start initializes dependencies and runs the HTTP server until interrupted.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	ensureDirExists(cfg.OutputDir)

	metaCache := cache.NewMetadataCache(cfg.CacheTTL, cfg.CacheCapacity)
	resolverClient := resolver.NewClient(cfg)
	transcoder := audio.NewFFmpegTranscoder(cfg.FFmpegPath)
	fetcher := audio.NewSourceFetcher(cfg.UserAgent)

	apiHandler := NewAPIHandler(cfg, metaCache, resolverClient, transcoder, fetcher)

	server := &http.Server{
		Addr:        cfg.ListenAddr,
		Handler:     NewRouter(apiHandler),
		ReadTimeout: 30 * time.Second,
		// No write timeout: streaming downloads run as long as the
		// transcode does; disconnects cancel them instead.
		IdleTimeout: 120 * time.Second,
	}

	// Janitor runs for the process lifetime, independent of request paths.
	janitorCtx, cancelJanitor := context.WithCancel(context.Background())
	defer cancelJanitor()
	go janitor.New(cfg.OutputDir, cfg.RetentionWindow, cfg.JanitorInterval).Run(janitorCtx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			logger.String("addr", cfg.ListenAddr),
			logger.String("outputDir", cfg.OutputDir))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server...")
	cancelJanitor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("server stopped")
}

func ensureDirExists(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("creating directory", logger.String("path", path))
		if err := os.MkdirAll(path, 0755); err != nil {
			logger.Fatal("failed to create directory",
				logger.String("path", path),
				logger.ErrorField(err))
		}
	} else if err != nil {
		logger.Fatal("failed to check directory",
			logger.String("path", path),
			logger.ErrorField(err))
	}
}
