package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zathu/zathu/internal/auth"
	"github.com/zathu/zathu/internal/config"
	"github.com/zathu/zathu/internal/gateway/paychangu"
	"github.com/zathu/zathu/internal/notify"
	"github.com/zathu/zathu/internal/payments"
	"github.com/zathu/zathu/internal/server"
	"github.com/zathu/zathu/internal/store/postgres"
	redisstore "github.com/zathu/zathu/internal/store/redis"
	"github.com/zathu/zathu/internal/tenant"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("ZATHU_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("ZATHU_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis for organization session storage.
	sessions, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.SessionTTL)
	if err != nil {
		return err
	}
	defer sessions.Close()

	// Create auth service.
	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// Create the tenant manager that resolves each user's current organization.
	manager := tenant.NewManager(sessions, store.Memberships(), store.Organizations())

	// Create the PayChangu gateway client.
	gateway := paychangu.NewClient(
		cfg.PayChangu.BaseURL,
		cfg.PayChangu.SecretKey,
		cfg.PayChangu.WebhookSecret,
		cfg.PayChangu.Timeout,
	)

	// Notifications go to Slack when a bot token is configured, otherwise to
	// the application log.
	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.Slack.BotToken != "" && cfg.Slack.Channel != "" {
		notifier = notify.NewSlackNotifier(cfg.Slack.BotToken, cfg.Slack.Channel)
		log.Info().Str("channel", cfg.Slack.Channel).Msg("Slack notifications enabled")
	}

	// Create the payment service and the webhook reconciler.
	paySvc := payments.NewService(
		gateway,
		store.Payments(),
		store.Invoices(),
		cfg.PayChangu.CallbackURL,
		cfg.PayChangu.ReturnURL,
	)
	reconciler := payments.NewReconciler(store.Payments(), store.Invoices(), notifier)

	webhookHandler := paychangu.NewHandler(
		cfg.PayChangu.WebhookSecret,
		reconciler,
		paySvc,
		cfg.Server.DashboardURL,
	)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, server.Deps{
		Store:          store,
		Manager:        manager,
		Auth:           authSvc,
		Payments:       paySvc,
		WebhookHandler: webhookHandler,
	})

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
