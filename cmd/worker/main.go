package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/bootstrap"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/infra"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/notify"
)

// The worker delivers donation receipts for completed donations recorded by
// the api.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	if cfg.DatabaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is required; the worker cannot share the api's in-memory store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer closeStore()

	var sender notify.Sender
	if cfg.SMTPConfigured() {
		sender = notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
		logger.Info().Str("smtp_host", cfg.SMTPHost).Msg("receipts delivered by mail")
	} else {
		sender = notify.NewLogSender(logger)
		logger.Warn().Msg("SMTP not configured, receipts are only logged")
	}

	poller := notify.NewPoller(store.Donations(), sender, logger, cfg.ReceiptPoll)
	logger.Info().Dur("interval", cfg.ReceiptPoll).Msg("receipt worker started")
	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("receipt worker stopped")
		return
	}
	logger.Info().Msg("receipt worker stopped")
}
