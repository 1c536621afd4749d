package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bilogames/account-service/internal/repository"
	"github.com/bilogames/account-service/pkg/observability"
	"go.uber.org/zap"
)

const reaperLockKey = "account-service:reaper"

// Locker grants a cluster-wide lease. A nil unlock with acquired=false means another holder has it.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(ctx context.Context) error, acquired bool, err error)
}

// ReaperConfig holds reaper timing
type ReaperConfig struct {
	Interval     time.Duration
	InitialDelay time.Duration
	Retention    time.Duration
	LockTTL      time.Duration
}

// Reaper deletes accounts that stayed unverified past the retention period
type Reaper struct {
	users    repository.UserRepository
	notifier Notifier
	locker   Locker
	config   ReaperConfig
	metrics  *observability.AuthMetrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewReaper(
	users repository.UserRepository,
	notifier Notifier,
	locker Locker,
	config ReaperConfig,
	metrics *observability.AuthMetrics,
	logger *zap.Logger,
) *Reaper {
	return &Reaper{
		users:    users,
		notifier: notifier,
		locker:   locker,
		config:   config,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Run reaps once after the initial delay and then on every interval until ctx is done
func (r *Reaper) Run(ctx context.Context) {
	r.logger.Info("Reaper started",
		zap.Duration("interval", r.config.Interval),
		zap.Duration("retention", r.config.Retention),
	)

	delay := time.NewTimer(r.config.InitialDelay)
	defer delay.Stop()

	select {
	case <-ctx.Done():
		r.logger.Info("Reaper stopped")
		return
	case <-delay.C:
		r.cycle(ctx)
	}

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Reaper stopped")
			return
		case <-ticker.C:
			r.cycle(ctx)
		}
	}
}

func (r *Reaper) cycle(ctx context.Context) {
	if _, err := r.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Error("Reaper cycle failed", zap.Error(err))
	}
}

// RunOnce deletes every unverified account created before now minus retention.
// Per-account failures are logged and skipped. It returns the number of deleted accounts.
// An unreachable lock store does not stop the cycle.
func (r *Reaper) RunOnce(ctx context.Context) (int, error) {
	if r.locker != nil {
		unlock, acquired, err := r.locker.TryLock(ctx, reaperLockKey, r.config.LockTTL)
		switch {
		case err != nil:
			r.logger.Warn("Reaper lock unavailable, reaping without it", zap.Error(err))
		case !acquired:
			r.logger.Debug("Reaper lock held elsewhere, skipping cycle")
			return 0, nil
		default:
			defer func() {
				if err := unlock(context.WithoutCancel(ctx)); err != nil {
					r.logger.Warn("Failed to release reaper lock", zap.Error(err))
				}
			}()
		}
	}

	start := r.now()
	cutoff := start.Add(-r.config.Retention)

	users, err := r.users.ListUnverifiedCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list unverified users: %w", err)
	}

	deleted := 0
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		// Users verified since the listing no longer match and are skipped.
		if err := r.users.DeleteUnverified(ctx, user.ID, cutoff); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				r.logger.Debug("Reaper candidate no longer qualifies", zap.String("user_id", user.ID))
				continue
			}
			r.logger.Error("Failed to delete unverified user",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
			continue
		}

		deleted++

		if err := r.notifier.SendAccountDeleted(ctx, user); err != nil {
			r.logger.Warn("Failed to send account deletion email",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	r.metrics.Reaped(ctx, deleted)
	r.logger.Info("Reaper cycle completed",
		zap.Int("candidates", len(users)),
		zap.Int("deleted", deleted),
		zap.Time("cutoff", cutoff),
		zap.Duration("duration", time.Since(start)),
	)

	return deleted, nil
}
