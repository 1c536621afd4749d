package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/bilogames/account-service/internal/app"
	"github.com/bilogames/account-service/internal/config"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("Account service failed: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	infra, err := app.NewInfrastructure(ctx, *cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	logStartup(infra.Logger(), cfg)

	return app.NewApp(infra, cfg).Run(ctx)
}

// logStartup records which optional integrations are active. Secrets are never logged.
func logStartup(logger *zap.Logger, cfg *config.Config) {
	logger.Info("Account service configured",
		zap.String("env", cfg.Env),
		zap.String("addr", cfg.Server.Host+":"+cfg.Server.Port),
		zap.Bool("mail_enabled", cfg.Mail.Host != ""),
		zap.Bool("google_sign_in", cfg.Google.ClientID != ""),
		zap.Bool("google_ticket_required", cfg.Google.RequireRegistrationToken),
		zap.Duration("unverified_retention", cfg.Reaper.Retention.Duration),
		zap.Duration("reaper_interval", cfg.Reaper.Interval.Duration),
	)
}
