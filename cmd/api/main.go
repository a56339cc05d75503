// Package main is the entry point for the Emergency Shield API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/emergency-shield/backend/config"
	"github.com/emergency-shield/backend/internal/infra/db"
	"github.com/emergency-shield/backend/internal/infra/dependency"
	"github.com/emergency-shield/backend/internal/infra/server/router"
	"github.com/emergency-shield/backend/internal/infra/telemetry"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	cfg := config.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	slog.Info("Starting Emergency Shield API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	policy, err := config.LoadShieldPolicy(cfg.Shield.PolicyFile)
	if err != nil {
		slog.Error("Invalid shield policy", "error", err)
		os.Exit(1)
	}

	shutdownTracing, err := telemetry.Init(context.Background(), cfg.Telemetry, cfg.Server.Environment)
	if err != nil {
		slog.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if cfg.Database.AutoMigrate || cfg.Database.Driver == db.DriverSQLite {
		if err := database.Migrate(); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations completed successfully")
	}

	var opts []dependency.Option
	if client := connectRedis(cfg.Redis); client != nil {
		defer client.Close()
		opts = append(opts, dependency.WithRedis(client))
	}

	injector := dependency.NewInjector(cfg, database.DB(), policy, opts...)
	engine := injector.Router.Setup(router.Config{
		Environment:        cfg.Server.Environment,
		ServiceName:        cfg.Telemetry.ServiceName,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		TracingEnabled:     cfg.Telemetry.Enabled,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		slog.Error("Failed to flush traces", "error", err)
	}

	slog.Info("Server exited properly")
}

// connectRedis returns nil when Redis is not configured or unreachable; the
// rate limiter then keeps its counters in process.
func connectRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.URL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		slog.Warn("Invalid REDIS_URL, rate limiting stays in process", "error", err)
		return nil
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis unavailable, rate limiting stays in process", "error", err)
		_ = client.Close()
		return nil
	}

	slog.Info("Redis connection established", "addr", opts.Addr)
	return client
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
