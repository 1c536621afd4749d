package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

type HealthChecker struct {
	infra Infrastructure
}

func NewHealthChecker(infra Infrastructure) *HealthChecker {
	return &HealthChecker{
		infra: infra,
	}
}

func (h *HealthChecker) check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	postgres := make(chan error, 1)
	redis := make(chan error, 1)

	go func() {
		if err := h.infra.Postgres().Ping(ctx); err != nil {
			postgres <- fmt.Errorf("postgres: %w", err)
			return
		}
		postgres <- nil
	}()

	go func() {
		if err := h.infra.Redis().Ping(ctx); err != nil {
			redis <- fmt.Errorf("redis: %w", err)
			return
		}
		redis <- nil
	}()

	return errors.Join(<-postgres, <-redis)
}

// Handler answers 200 when Postgres and Redis respond, 503 otherwise
func (h *HealthChecker) Handler(c *gin.Context) {
	if err := h.check(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "fail",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "pass",
	})
}
