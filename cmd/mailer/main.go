// Package main runs the email worker that delivers queued shield notifications.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/emergency-shield/backend/config"
	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/infra/db"
	"github.com/emergency-shield/backend/internal/integration/email"
	"github.com/emergency-shield/backend/internal/integration/email/templates"
	"github.com/emergency-shield/backend/internal/integration/persistence"
)

const sentJobRetentionDays = 30

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if !cfg.Email.WorkerEnabled {
		slog.Info("Email worker disabled, exiting")
		return
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

	renderer, err := templates.NewRenderer()
	if err != nil {
		slog.Error("Failed to load email templates", "error", err)
		os.Exit(1)
	}

	var sender adapter.EmailSender
	if cfg.Email.ResendAPIKey == "" {
		slog.Warn("RESEND_API_KEY not set, emails are logged instead of sent")
		sender = email.NewMockEmailSender()
	} else {
		client, err := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.ResendBaseURL, cfg.Email.FromName, cfg.Email.FromEmail)
		if err != nil {
			slog.Error("Failed to create Resend client", "error", err)
			os.Exit(1)
		}
		sender = client
	}

	queue := persistence.NewEmailQueueRepository(database.DB())
	worker := email.NewWorker(
		queue,
		sender,
		renderer,
		email.WorkerConfig{
			PollInterval: cfg.Email.PollInterval,
			BatchSize:    cfg.Email.BatchSize,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if pruned, err := queue.DeleteOldSentJobs(ctx, sentJobRetentionDays); err != nil {
		slog.Warn("Failed to prune sent emails", "error", err)
	} else if pruned > 0 {
		slog.Info("Pruned sent emails", "count", pruned)
	}

	worker.Start(ctx)
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
