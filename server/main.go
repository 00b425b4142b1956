package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/vector-art/internal/config"
	"github.com/phambaophuc/vector-art/internal/http/handlers"
	"github.com/phambaophuc/vector-art/internal/http/routes"
	"github.com/phambaophuc/vector-art/internal/services/fetcher"
	"github.com/phambaophuc/vector-art/internal/services/orchestrator"
	"github.com/phambaophuc/vector-art/internal/services/preview"
	"github.com/phambaophuc/vector-art/internal/services/queue"
	"github.com/phambaophuc/vector-art/internal/services/remote"
	"github.com/phambaophuc/vector-art/internal/services/storage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize services
	storageService, err := storage.NewStorageService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}
	defer storageService.Close()

	queueService, err := queue.NewQueueService(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger)
	if err != nil {
		logger.Warn("Failed to initialize queue service, session events are not published", zap.Error(err))
		// Continue without queue service for basic functionality
	} else {
		defer queueService.Close()
	}

	httpClient := &http.Client{Timeout: cfg.Remote.RequestTimeout}
	remoteClient := remote.NewClientFromConfig(cfg.Remote, logger)
	downloader := fetcher.New(storageService, logger,
		fetcher.ProxyStrategy(httpClient, cfg.Remote.ProxyBase, cfg.Storage.MaxDownloadSize),
		fetcher.DirectStrategy(httpClient, time.Now, cfg.Storage.MaxDownloadSize),
	)

	opts := orchestrator.Options{
		Sessions:   storageService.SessionStore(),
		Uploader:   remoteClient,
		Submitter:  remoteClient,
		Poller:     remoteClient,
		Downloader: downloader,
		Preview:    preview.NewRenderer(cfg.Storage.PreviewSize, cfg.Storage.MaxPixels),
		Results:    storageService,
		Logger:     logger,
	}
	if queueService != nil {
		opts.Events = queueService
	}
	controller := orchestrator.NewController(opts)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(controller, storageService, logger, cfg)
	healthHandler := handlers.NewHealthHandler(storageService, queueService, logger)
	proxyHandler := handlers.NewProxyHandler(httpClient, cfg.Remote.ProxyHosts, cfg.Storage.MaxDownloadSize, logger)

	router := routes.NewRouter(sessionHandler, healthHandler, proxyHandler, cfg.Server.AllowedOrigins, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server",
			zap.String("addr", server.Addr),
			zap.String("api_base", cfg.Remote.APIBase))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Cancels running generations and waits for them to record their outcome.
	controller.Close()

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
