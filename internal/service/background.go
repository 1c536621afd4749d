package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const backgroundTimeout = 30 * time.Second

// Background runs fire-and-forget tasks detached from the request context
type Background struct {
	wg     sync.WaitGroup
	logger *zap.Logger
}

func NewBackground(logger *zap.Logger) *Background {
	return &Background{logger: logger}
}

// Go runs fn in its own goroutine and logs its failure under name
func (b *Background) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, backgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			b.logger.Error("Background task failed", zap.String("task", name), zap.Error(err))
		}
	}()
}

// Wait blocks until every started task has returned
func (b *Background) Wait() {
	b.wg.Wait()
}
