// Package server wires storage, admission and the HTTP handlers together
// and runs the service until it is interrupted.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"go-link-shortener/admission"
	"go-link-shortener/cache"
	"go-link-shortener/config"
	"go-link-shortener/handlers"
	"go-link-shortener/reputation"
	"go-link-shortener/services"
	"go-link-shortener/storage"
	"go-link-shortener/urlgen"
	"go.uber.org/zap"
)

func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := setupStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("setting up storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage", zap.Error(err))
		}
	}()

	urlHandler, err := setupURLHandler(ctx, cfg, store, logger)
	if err != nil {
		return err
	}

	router := setupRouter(urlHandler, logger)
	srv := setupServer(cfg, router)

	go startServer(srv, logger)

	return waitForShutdown(ctx, srv, logger)
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		return storage.NewPostgresStorage(cfg.DatabaseDSN, cfg.MigrationsDir, logger)
	case config.DriverSQLite:
		return storage.NewSQLiteStorage(cfg.SQLitePath, logger)
	default:
		return storage.NewInMemoryStorage(cfg.StorageCapacity, logger), nil
	}
}

func setupURLHandler(ctx context.Context, cfg *config.Config, store storage.Storage, logger *zap.Logger) (handlers.URLHandlerInterface, error) {
	handlerCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	pipeline := admission.New(
		admission.NewHTTPProber(cfg.ProbeTimeout),
		setupChecker(ctx, cfg, logger),
		cfg.BaseURL,
		logger,
	)
	reserved := urlgen.NewReservedSet(cfg.ReservedCodes...)
	urlService := services.NewURLService(store, pipeline, reserved, cfg.BaseURL, logger)

	handler, err := handlers.NewURLHandler(handlerCtx, urlService, cfg, logger)
	if err != nil {
		logger.Error("Failed to create URL handler", zap.Error(err))
		return nil, err
	}

	logger.Debug("URL handler created successfully")
	return handler, nil
}

// setupChecker builds the reputation client. It returns nil when no API key
// is configured, which makes the admission pipeline skip the safety stage.
func setupChecker(ctx context.Context, cfg *config.Config, logger *zap.Logger) reputation.Checker {
	if cfg.ReputationAPIKey == "" {
		logger.Info("No reputation API key configured, URL safety checks are disabled")
		return nil
	}

	return reputation.NewClient(reputation.ClientConfig{
		Endpoint: cfg.ReputationAPIURL,
		APIKey:   cfg.ReputationAPIKey,
		Timeout:  cfg.ReputationTimeout,
		RPS:      cfg.ReputationRPS,
		Burst:    cfg.ReputationBurst,
		CacheTTL: cfg.ReputationCacheTTL,
	}, setupVerdictCache(ctx, cfg, logger), logger)
}

// setupVerdictCache connects the Redis verdict cache. A missing URL or an
// unreachable Redis yields nil and the client queries the API every time.
func setupVerdictCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) cache.Cache {
	if cfg.RedisURL == "" {
		return nil
	}

	redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("Verdict cache unavailable, falling back to direct lookups", zap.Error(err))
		return nil
	}
	return redisCache
}

func setupRouter(urlHandler handlers.URLHandlerInterface, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	handlers.RegisterRoutes(router, urlHandler, logger)
	return router
}

func setupServer(cfg *config.Config, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:    cfg.ServerPort,
		Handler: router,
	}
}

func startServer(srv *http.Server, logger *zap.Logger) {
	logger.Info("Starting server", zap.String("address", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", zap.Error(err))
	}
	logger.Debug("Server stopped")
}

func waitForShutdown(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	defer signal.Stop(quit)

	select {
	case <-quit:
		logger.Info("Received interrupt signal. Initiating server shutdown...")
	case <-ctx.Done():
		logger.Info("Context cancelled. Initiating server shutdown...")
	}

	// The parent context may already be cancelled, so the drain period gets
	// its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server gracefully stopped")
	return nil
}
