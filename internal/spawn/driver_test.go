package spawn

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver_RunsImmediatelyAndOnEveryTick(t *testing.T) {
	runner := &countingRunner{}
	ticks := make(chan time.Time)
	start := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	var observed atomic.Int32
	d := NewDriver(runner, 30*time.Second,
		WithTicks(ticks),
		WithClock(func() time.Time { return start }),
		WithObserver(func(CycleSummary) { observed.Add(1) }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	ticks <- start.Add(30 * time.Second)
	ticks <- start.Add(60 * time.Second)

	require.Eventually(t, func() bool { return d.Cycles() == 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not stop")
	}

	assert.Equal(t, []time.Time{start, start.Add(30 * time.Second), start.Add(60 * time.Second)}, runner.calls())
	assert.EqualValues(t, 3, observed.Load())
}

func TestDriver_ClosedTickSourceStops(t *testing.T) {
	runner := &countingRunner{}
	ticks := make(chan time.Time)
	close(ticks)

	err := NewDriver(runner, time.Second, WithTicks(ticks)).Run(context.Background())

	assert.NoError(t, err)
	assert.Len(t, runner.calls(), 1)
}

func TestDriver_RealTicker(t *testing.T) {
	runner := &countingRunner{}
	d := NewDriver(runner, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err := d.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, len(runner.calls()), 3)
}

func TestDriver_CanceledBeforeStart(t *testing.T) {
	runner := &countingRunner{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDriver(runner, time.Hour).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, runner.calls())
}
