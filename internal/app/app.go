package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bilogames/account-service/internal/config"
	"github.com/bilogames/account-service/internal/google"
	"github.com/bilogames/account-service/internal/handler"
	"github.com/bilogames/account-service/internal/mail"
	"github.com/bilogames/account-service/internal/repository"
	"github.com/bilogames/account-service/internal/service"
	"github.com/bilogames/account-service/internal/utils"
	"github.com/bilogames/account-service/pkg/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra      Infrastructure
	config     *config.Config
	router     *gin.Engine
	server     *http.Server
	reaper     *service.Reaper
	background *service.Background
	reaperDone sync.WaitGroup
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	logger := infra.Logger()
	metrics := infra.Telemetry().Metrics

	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.Expiry.Duration,
		cfg.Google.RegistrationTTL.Duration,
	)
	hasher := utils.NewPasswordHasher(cfg.Security.BCryptCost)
	codes := service.NewCodeService(repos.VerificationCode, repos.ResetCode, cfg.Security.CodeTTL.Duration, metrics)
	notifier := mail.NewNotifier(infra.MailSender(), metrics, cfg.Security.CodeTTL.Duration, cfg.Reaper.Retention.Duration)
	background := service.NewBackground(logger)

	accountService := service.NewAccountService(
		repos.User,
		codes,
		hasher,
		jwtManager,
		notifier,
		background,
		metrics,
		logger,
	)
	verificationService := service.NewVerificationService(repos.User, codes, jwtManager, notifier, logger)
	passwordResetService := service.NewPasswordResetService(repos.User, codes, hasher, notifier, logger)
	googleService := service.NewGoogleAuthService(
		repos.User,
		newGoogleAuthenticator(infra, cfg.Google),
		hasher,
		jwtManager,
		notifier,
		background,
		metrics,
		logger,
		service.GoogleAuthOptions{RequireRegistrationToken: cfg.Google.RequireRegistrationToken},
	)

	reaper := service.NewReaper(
		repos.User,
		notifier,
		service.NewRedisLocker(infra.Redis()),
		service.ReaperConfig{
			Interval:     cfg.Reaper.Interval.Duration,
			InitialDelay: cfg.Reaper.InitialDelay.Duration,
			Retention:    cfg.Reaper.Retention.Duration,
			LockTTL:      cfg.Reaper.LockTTL.Duration,
		},
		metrics,
		logger,
	)

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(accountService, logger),
		Verification: handler.NewVerificationHandler(verificationService, logger),
		Password:     handler.NewPasswordHandler(passwordResetService, logger),
		Google:       handler.NewGoogleHandler(googleService, logger),
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(handler.LoggerMiddleware(logger))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	router.GET("/", rootHandler)
	router.GET("/health", NewHealthChecker(infra).Handler)
	router.GET("/metrics", observability.PrometheusHandler(infra.Telemetry().Handler))
	handler.RegisterRoutes(router, handlers, handler.AuthMiddleware(accountService))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:      infra,
		config:     cfg,
		router:     router,
		server:     srv,
		reaper:     reaper,
		background: background,
	}
}

// newGoogleAuthenticator tries ID token verification first and falls back to the userinfo endpoint
func newGoogleAuthenticator(infra Infrastructure, cfg config.GoogleConfig) *google.Authenticator {
	var strategies []google.Strategy

	if keys := infra.GoogleKeys(); keys != nil && cfg.ClientID != "" {
		strategies = append(strategies, google.NewIDTokenVerifier(keys.Keyfunc, cfg.ClientID))
	}
	strategies = append(strategies, google.NewUserInfoClient(cfg.UserInfoURL, infra.HTTPClient()))

	return google.NewAuthenticator(infra.Logger(), strategies...)
}

func rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "BiloGames API",
		"status":  "running",
	})
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Reaper exposes the unverified-account reaper so callers can trigger a cycle
func (a *App) Reaper() *service.Reaper {
	return a.reaper
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	reaperCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()

	a.reaperDone.Add(1)
	go func() {
		defer a.reaperDone.Done()
		a.reaper.Run(reaperCtx)
	}()

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	stopReaper()

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

// Shutdown stops accepting requests, waits for the reaper and pending mail, then releases infrastructure
func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	serverErr := a.server.Shutdown(ctx)

	a.reaperDone.Wait()
	a.background.Wait()

	err := errors.Join(serverErr, a.infra.Shutdown(ctx))
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
