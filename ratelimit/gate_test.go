package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateFirstCallImmediate(t *testing.T) {
	g := New(time.Second)

	start := time.Now()
	require.NoError(t, g.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestGateEnforcesInterval(t *testing.T) {
	const interval = 100 * time.Millisecond
	g := New(interval)

	ctx := context.Background()
	require.NoError(t, g.Wait(ctx))

	start := time.Now()
	require.NoError(t, g.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), interval-10*time.Millisecond)
}

func TestGateZeroInterval(t *testing.T) {
	g := New(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, g.Wait(ctx))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestGateSlowCallerNotDelayed(t *testing.T) {
	const interval = 50 * time.Millisecond
	g := New(interval)
	ctx := context.Background()

	require.NoError(t, g.Wait(ctx))
	time.Sleep(2 * interval)

	// Interval already elapsed, so no further wait.
	start := time.Now()
	require.NoError(t, g.Wait(ctx))
	assert.Less(t, time.Since(start), interval)
}

func TestGateContextCancellation(t *testing.T) {
	g := New(time.Minute)
	require.NoError(t, g.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := g.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGateDo(t *testing.T) {
	g := New(10 * time.Millisecond)
	ctx := context.Background()

	calls := 0
	for i := 0; i < 3; i++ {
		err := g.Do(ctx, func() error {
			calls++
			return nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)

	sentinel := errors.New("boom")
	err := g.Do(ctx, func() error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
}

func TestGateReset(t *testing.T) {
	g := New(time.Minute)
	ctx := context.Background()

	require.NoError(t, g.Wait(ctx))
	g.Reset()

	start := time.Now()
	require.NoError(t, g.Wait(ctx))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestGateConcurrentCallsSerialize(t *testing.T) {
	const interval = 30 * time.Millisecond
	g := New(interval)
	ctx := context.Background()

	start := time.Now()
	done := make(chan struct{})
	for i := 0; i < 3; i++ {
		go func() {
			_ = g.Wait(ctx)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 3; i++ {
		<-done
	}
	// Three admissions need at least two full intervals between them.
	assert.GreaterOrEqual(t, time.Since(start), 2*interval-10*time.Millisecond)
}
