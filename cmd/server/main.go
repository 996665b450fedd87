// Package main is the entry point for the pharmacy-messenger HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/popeskul/pharmacy-messenger/internal/config"
	"github.com/popeskul/pharmacy-messenger/internal/handler"
	"github.com/popeskul/pharmacy-messenger/internal/infrastructure/migrate"
	"github.com/popeskul/pharmacy-messenger/internal/metrics"
	"github.com/popeskul/pharmacy-messenger/internal/middleware"
	"github.com/popeskul/pharmacy-messenger/internal/ratelimit"
	"github.com/popeskul/pharmacy-messenger/internal/realtime"
	"github.com/popeskul/pharmacy-messenger/internal/repository"
	"github.com/popeskul/pharmacy-messenger/internal/service"
)

func main() {
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if cfg.Viber.AuthToken == "" {
		logger.Warn("Viber auth token is not set, outbound messages will be rejected")
	}

	if cfg.Database.AutoMigrate {
		runner := migrate.NewRunner(&migrate.Config{
			DatabaseURL:    cfg.Database.GetDSN(),
			MigrationsPath: cfg.Database.MigrationsPath,
		}, logger)
		if err := runner.Up(); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis is unreachable, running without token dedupe or cross-instance realtime", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)
	limiter := ratelimit.New(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)

	hub := realtime.NewHub(collector, logger,
		realtime.WithAllowedOrigins(cfg.Realtime.AllowedOrigins),
		realtime.WithSendBuffer(cfg.Realtime.SendBuffer),
	)
	if err := hub.UseBridge(ctx, realtime.NewRedisBridge(redisClient, cfg.Realtime.Channel, logger)); err != nil {
		logger.Warn("Realtime events will only reach local connections", zap.Error(err))
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, redisClient, hub, collector, limiter, logger)
	hub.SetAdminHandler(svc.Admin)

	h := handler.NewHandler(svc, collector, &cfg.Viber, logger)
	router := setupRouter(h, hub.ServeWS, registry)

	middlewareConfig := &middleware.Config{
		Logger:         logger,
		APIPrefix:      "/api",
		RateLimit:      rate.Limit(cfg.Middleware.RateLimit),
		RateLimitBurst: cfg.Middleware.RateLimitBurst,
		RequestTimeout: 30 * time.Second,
		BodyLimitBytes: cfg.Middleware.BodyLimitBytes,
		HTTPMetrics:    middleware.NewHTTPMetrics(registry),
		WebhookPath:    "/webhook",
		Collector:      collector,
	}
	if cfg.Middleware.EnableCORS {
		middlewareConfig.CORS = &middleware.CORSConfig{
			AllowedOrigins:   cfg.Middleware.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Viber-Content-Signature"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           86400,
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      middleware.Chain(middlewareConfig)(router),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := svc.Maintenance.Start(); err != nil {
		logger.Error("Failed to start maintenance job", zap.Error(err))
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", srv.Addr),
			zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	if svc.Maintenance.IsRunning() {
		if err := svc.Maintenance.Stop(); err != nil {
			logger.Error("Failed to stop maintenance job", zap.Error(err))
		}
	}

	if err := hub.Close(); err != nil {
		logger.Error("Failed to close realtime hub", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
