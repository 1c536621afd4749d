package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bilogames/account-service/internal/config"
	"github.com/bilogames/account-service/internal/google"
	"github.com/bilogames/account-service/internal/mail"
	"github.com/bilogames/account-service/pkg/database"
	"github.com/bilogames/account-service/pkg/observability"
	"go.uber.org/zap"
)

const serviceName = "account-service"

type Infrastructure interface {
	Postgres() *database.Postgres
	Redis() *database.Redis
	Logger() *zap.Logger
	Telemetry() *observability.Telemetry
	MailSender() mail.Sender
	// GoogleKeys may be nil when the key set could not be fetched at startup.
	GoogleKeys() *google.JWKS
	HTTPClient() *http.Client

	Shutdown(ctx context.Context) error
}

type infrastructure struct {
	postgres   *database.Postgres
	redis      *database.Redis
	logger     *zap.Logger
	telemetry  *observability.Telemetry
	mailSender mail.Sender
	googleKeys *google.JWKS
	httpClient *http.Client
}

var _ Infrastructure = &infrastructure{}

func NewInfrastructure(ctx context.Context, cfg config.Config) (*infrastructure, error) {
	i := &infrastructure{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	logger, err := observability.InitLogger(cfg.Env, serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	i.logger = logger

	postgres, err := database.NewPostgres(ctx, cfg.Postgres.DSN(), database.PoolOptions{
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	i.postgres = postgres

	if cfg.Postgres.AutoMigrate {
		if err := database.RunMigrations(cfg.Postgres.URL()); err != nil {
			_ = i.postgres.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("Database migrations applied")
	}

	redis, err := database.NewRedis(ctx, cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		_ = i.postgres.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	i.redis = redis

	telemetry, err := observability.InitTelemetry(serviceName)
	if err != nil {
		_ = i.postgres.Close()
		_ = i.redis.Close()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	i.telemetry = telemetry

	i.mailSender, err = newMailSender(cfg.Mail, logger)
	if err != nil {
		_ = i.postgres.Close()
		_ = i.redis.Close()
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	if cfg.Google.ClientID != "" {
		keys, err := google.NewJWKS(cfg.Google.JWKSURL, logger)
		if err != nil {
			logger.Warn("Google JWKS unavailable, ID tokens will be checked via userinfo only", zap.Error(err))
		} else {
			i.googleKeys = keys
		}
	}

	return i, nil
}

func newMailSender(cfg config.MailConfig, logger *zap.Logger) (mail.Sender, error) {
	if !cfg.SMTPEnabled() {
		logger.Warn("MAIL_HOST is not set, emails will only be logged")
		return mail.NewLogSender(logger), nil
	}

	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	})
}

func (i *infrastructure) Postgres() *database.Postgres {
	return i.postgres
}

func (i *infrastructure) Redis() *database.Redis {
	return i.redis
}

func (i *infrastructure) Logger() *zap.Logger {
	return i.logger
}

func (i *infrastructure) Telemetry() *observability.Telemetry {
	return i.telemetry
}

func (i *infrastructure) MailSender() mail.Sender {
	return i.mailSender
}

func (i *infrastructure) GoogleKeys() *google.JWKS {
	return i.googleKeys
}

func (i *infrastructure) HTTPClient() *http.Client {
	return i.httpClient
}

func (i *infrastructure) Shutdown(ctx context.Context) error {
	if i.googleKeys != nil {
		i.googleKeys.Close()
	}

	errs := make(chan error, 3)

	go func() { errs <- i.postgres.Close() }()
	go func() { errs <- i.redis.Close() }()
	go func() { errs <- observability.Shutdown(ctx, i.telemetry, i.logger) }()

	return errors.Join(<-errs, <-errs, <-errs)
}
