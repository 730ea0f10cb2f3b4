package task

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Runner accepts background tasks that are executed without blocking the
// caller. Failures are reported through logging only; nothing propagates
// back to the submitter. The contract is deliberate: don't await, but do log.
type Runner interface {
	// Submit schedules fn for execution. The name identifies the task in
	// log output.
	Submit(name string, fn func(ctx context.Context) error)
}

// BackgroundRunner executes each submitted task in its own goroutine with a
// bounded lifetime. Tasks are not queued, coalesced or retried; two rapid
// submissions may complete in either order.
type BackgroundRunner struct {
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewBackgroundRunner creates a runner whose tasks are cancelled after the
// given timeout.
func NewBackgroundRunner(logger *zap.Logger, timeout time.Duration) *BackgroundRunner {
	return &BackgroundRunner{
		logger:  logger,
		timeout: timeout,
	}
}

// Submit schedules fn on a new goroutine
func (r *BackgroundRunner) Submit(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("background task panicked",
					zap.String("task", name),
					zap.Any("panic", rec),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.logger.Warn("background task failed",
				zap.String("task", name),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until all submitted tasks have finished. Used on shutdown and
// in tests.
func (r *BackgroundRunner) Wait() {
	r.wg.Wait()
}

// SyncRunner executes tasks inline on the calling goroutine. It exists for
// tests that need deterministic ordering of cart sync effects.
type SyncRunner struct {
	logger *zap.Logger
	// Names records submitted task names in order.
	Names []string
}

// NewSyncRunner creates a synchronous runner
func NewSyncRunner(logger *zap.Logger) *SyncRunner {
	return &SyncRunner{logger: logger}
}

// Submit runs fn immediately
func (r *SyncRunner) Submit(name string, fn func(ctx context.Context) error) {
	r.Names = append(r.Names, name)
	if err := fn(context.Background()); err != nil {
		r.logger.Warn("background task failed",
			zap.String("task", name),
			zap.Error(err),
		)
	}
}

var (
	_ Runner = (*BackgroundRunner)(nil)
	_ Runner = (*SyncRunner)(nil)
)
