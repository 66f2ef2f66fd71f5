package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kursline/rate-service/internal/cache"
	"github.com/kursline/rate-service/internal/config"
	"github.com/kursline/rate-service/internal/fetcher"
	"github.com/kursline/rate-service/internal/handler"
	"github.com/kursline/rate-service/internal/metrics"
	"github.com/kursline/rate-service/internal/pairstore"
	"github.com/kursline/rate-service/internal/provider"
	"github.com/kursline/rate-service/internal/service"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	defer logger.Sync()

	logger.Info("Starting Rate Service",
		zap.String("environment", cfg.Environment),
		zap.Int("httpPort", cfg.HTTPPort),
	)

	// Pair storage: Redis when configured, in-memory otherwise.
	pairStore, redisClient := setupPairStore(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	appMetrics := metrics.New("rate_service")

	rateService := setupRateService(cfg, appMetrics, logger)

	router := setupRouter(cfg, logger, rateService, pairStore)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.Int("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func setupLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error

	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		panic(err)
	}

	return logger
}

func setupPairStore(cfg *config.Config, logger *zap.Logger) (pairstore.PairStore, *redis.Client) {
	if !cfg.UseRedis() {
		logger.Info("Redis not configured, using in-memory pair store")
		return pairstore.NewMemoryStore(), nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Warn("Redis connection failed, falling back to in-memory pair store", zap.Error(err))
		redisClient.Close()
		return pairstore.NewMemoryStore(), nil
	}

	logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
	return pairstore.NewRedisStore(redisClient), redisClient
}

func setupRateService(cfg *config.Config, appMetrics *metrics.Metrics, logger *zap.Logger) *service.RateService {
	fetchClient := fetcher.NewClient(fetcher.Options{
		Timeout:    cfg.RequestTimeout(),
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay(),
	}, logger)

	frankfurter := provider.NewFrankfurter(cfg.FrankfurterURL, fetchClient, logger)
	nbu := provider.NewNBU(cfg.NBUURL, fetchClient, logger)
	backup := provider.NewExchangeRateAPI(cfg.ExchangeRateAPIURL, fetchClient, logger)

	major := provider.NewFallbackSource(frankfurter, cfg.MaxFallbackDays, cfg.FallbackEnabled, logger)
	uah := provider.NewFallbackSource(nbu, cfg.MaxFallbackDays, cfg.FallbackEnabled, logger)

	rateCache := cache.New(cfg.CacheTTL())

	return service.NewRateService(rateCache, major, uah, backup, appMetrics, logger)
}

func setupRouter(cfg *config.Config, logger *zap.Logger, rateService *service.RateService, pairStore pairstore.PairStore) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	httpHandler := handler.NewHTTPHandler(rateService, pairStore, logger)
	httpHandler.SetupRoutes(router)

	if cfg.MetricsEnabled {
		router.GET(cfg.MetricsEndpoint, gin.WrapH(promhttp.Handler()))
	}

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		requestID := uuid.New().String()
		c.Header("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger.Info("Request",
			zap.String("requestId", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		)
	}
}
