package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/urlkit/urlkit/internal/logging"
)

// Gate enforces a minimum interval between successive calls.
//
// The zero interval admits every call immediately. The mutex is held
// for the duration of the wait, so concurrent callers queue and each
// observes the full interval from its predecessor.
type Gate struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	logger   *logging.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the logger the gate writes pacing events to.
func WithLogger(logger *logging.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a gate admitting at most one call per interval.
func New(interval time.Duration, opts ...Option) *Gate {
	g := &Gate{
		interval: interval,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Interval returns the configured minimum interval.
func (g *Gate) Interval() time.Duration {
	return g.interval
}

// Wait blocks until the interval since the previous admitted call has
// elapsed, then records the current call. It returns early with the
// context's error if ctx is canceled while waiting.
func (g *Gate) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.last.IsZero() {
		elapsed := time.Since(g.last)
		g.logger.Debug("last ran", zap.Duration("elapsed", elapsed))

		if remaining := g.interval - elapsed; remaining > 0 {
			g.logger.Debug("waiting", zap.Duration("remaining", remaining))

			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	g.last = time.Now()
	return nil
}

// Do waits for admission and then runs fn.
func (g *Gate) Do(ctx context.Context, fn func() error) error {
	if err := g.Wait(ctx); err != nil {
		return err
	}
	return fn()
}

// Reset forgets the previous call, so the next Wait admits immediately.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = time.Time{}
}
