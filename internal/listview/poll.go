package listview

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Poller calls a refresh function on an interval. A tick that arrives while
// the previous call is still running is skipped rather than queued.
type Poller struct {
	interval time.Duration
	fn       func(context.Context) error
	onError  func(error)

	inFlight atomic.Bool
	skipped  atomic.Int64
	wg       sync.WaitGroup
}

// DefaultPollInterval replaces a non-positive interval.
const DefaultPollInterval = 5 * time.Second

// NewPoller creates a poller. onError may be nil.
func NewPoller(interval time.Duration, fn func(context.Context) error, onError func(error)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{interval: interval, fn: fn, onError: onError}
}

// Tick starts one refresh unless one is already running. It reports whether
// a refresh was started.
func (p *Poller) Tick(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		return false
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.inFlight.Store(false)
		if err := p.fn(ctx); err != nil && p.onError != nil {
			p.onError(err)
		}
	}()
	return true
}

// Run ticks immediately and then every interval until ctx is done. It waits
// for a running refresh to return before returning ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Wait blocks until the running refresh, if any, returns.
func (p *Poller) Wait() {
	p.wg.Wait()
}

// Busy reports whether a refresh is running.
func (p *Poller) Busy() bool {
	return p.inFlight.Load()
}

// Skipped returns how many ticks were dropped because a refresh was running.
func (p *Poller) Skipped() int64 {
	return p.skipped.Load()
}
