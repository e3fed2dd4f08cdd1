package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/menucompare/backend/config"
	httpDelivery "github.com/menucompare/backend/internal/delivery/http"
	"github.com/menucompare/backend/internal/domain"
	"github.com/menucompare/backend/internal/infrastructure/cache"
	"github.com/menucompare/backend/internal/infrastructure/pairing"
	"github.com/menucompare/backend/internal/infrastructure/platform"
	"github.com/menucompare/backend/internal/logger"
	"github.com/menucompare/backend/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("Starting MenuCompare Backend v1.0.0",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
	)

	// Initialize infrastructure dependencies
	store, closeCache := newCache(cfg.Cache, zlog)
	defer closeCache()

	pairingClient := pairing.NewClient(cfg.Pairing.BaseURL, cfg.Pairing.Timeout, zlog)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := pairingClient.Ping(pingCtx); err != nil {
		zlog.Warn("pairing service not reachable at startup", zap.String("url", cfg.Pairing.BaseURL), zap.Error(err))
	}
	cancelPing()
	pairings := pairing.NewCachedLookup(pairingClient, store, cfg.Cache.PairingTTL, zlog)

	catalogs := platform.NewClient(platform.Config{
		Snappfood: platform.Endpoint{
			BaseURL:   cfg.Platforms.Snappfood.BaseURL,
			Latitude:  cfg.Platforms.Snappfood.Latitude,
			Longitude: cfg.Platforms.Snappfood.Longitude,
		},
		Tapsifood: platform.Endpoint{
			BaseURL:   cfg.Platforms.Tapsifood.BaseURL,
			Latitude:  cfg.Platforms.Tapsifood.Latitude,
			Longitude: cfg.Platforms.Tapsifood.Longitude,
		},
		Timeout:           cfg.Platforms.Timeout,
		RequestsPerSecond: cfg.RateLimit.Platform,
	}, zlog)

	// Initialize usecase layer
	comparisonService := usecase.NewComparisonService(pairings, catalogs, zlog)
	vendorService := usecase.NewVendorService(
		pairingClient,
		pairings,
		store,
		usecase.VendorServiceConfig{ListTTL: cfg.Cache.VendorListTTL},
		zlog,
	)

	handler := httpDelivery.NewHandler(comparisonService, vendorService, zlog)
	router := httpDelivery.SetupRouter(cfg, handler, zlog)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	zlog.Info("Server listening", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server exited")
}

// newCache builds the configured cache backend. An unreachable redis falls back to memory
// so lookups keep working without shared caching.
func newCache(cfg config.CacheConfig, zlog *zap.Logger) (domain.CacheRepository, func()) {
	if cfg.Type == "redis" {
		client, err := cache.NewRedisClient(cfg.RedisURL)
		if err == nil {
			redisCache := cache.NewRedisCache(client, "menucompare:")
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err = redisCache.Ping(ctx)
			cancel()
			if err == nil {
				zlog.Info("using redis cache")
				return redisCache, func() { _ = redisCache.Close() }
			}
			_ = redisCache.Close()
		}
		zlog.Warn("redis unavailable, falling back to memory cache", zap.Error(err))
	}

	memoryCache := cache.NewMemoryCache(cfg.SweepInterval)
	return memoryCache, func() { _ = memoryCache.Close() }
}
