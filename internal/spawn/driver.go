package spawn

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// CycleRunner runs a single generation cycle at the given instant.
type CycleRunner interface {
	RunCycle(ctx context.Context, now time.Time) CycleSummary
}

// Observer receives every finished cycle summary.
type Observer func(CycleSummary)

// Driver invokes a CycleRunner on a fixed interval. Cycles never overlap:
// a slow cycle simply delays the next tick.
type Driver struct {
	runner   CycleRunner
	interval time.Duration
	ticks    <-chan time.Time
	now      func() time.Time

	observers []Observer
	cycles    atomic.Int64
}

// DriverOption customises a Driver.
type DriverOption func(*Driver)

// WithTicks replaces the internal ticker with an external tick source.
// Each received value is used as the cycle's reference instant.
func WithTicks(ticks <-chan time.Time) DriverOption {
	return func(d *Driver) { d.ticks = ticks }
}

// WithClock sets the clock used for the initial cycle.
func WithClock(now func() time.Time) DriverOption {
	return func(d *Driver) { d.now = now }
}

// WithObserver registers fn to receive cycle summaries.
func WithObserver(fn Observer) DriverOption {
	return func(d *Driver) { d.observers = append(d.observers, fn) }
}

// NewDriver creates a driver for runner ticking every interval.
func NewDriver(runner CycleRunner, interval time.Duration, opts ...DriverOption) *Driver {
	d := &Driver{
		runner:   runner,
		interval: interval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run runs one cycle immediately, then one per tick, until ctx is canceled.
func (d *Driver) Run(ctx context.Context) error {
	ticks := d.ticks
	if ticks == nil {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	slog.Info("spawn driver started", "interval", d.interval)

	d.runOnce(ctx, d.now())
	for {
		select {
		case <-ctx.Done():
			slog.Info("spawn driver stopping", "cycles", d.cycles.Load())
			return ctx.Err()

		case now, ok := <-ticks:
			if !ok {
				slog.Info("spawn driver tick source closed", "cycles", d.cycles.Load())
				return nil
			}
			d.runOnce(ctx, now)
		}
	}
}

// Cycles returns how many cycles have completed.
func (d *Driver) Cycles() int64 {
	return d.cycles.Load()
}

func (d *Driver) runOnce(ctx context.Context, now time.Time) {
	if ctx.Err() != nil {
		return
	}
	summary := d.runner.RunCycle(ctx, now)
	d.cycles.Add(1)
	for _, obs := range d.observers {
		obs(summary)
	}
}
