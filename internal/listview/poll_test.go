package listview

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestPoller_SkipsWhileInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	var calls atomic.Int32
	p := NewPoller(time.Hour, func(ctx context.Context) error {
		calls.Add(1)
		<-release
		return nil
	}, nil)

	ctx := context.Background()
	if !p.Tick(ctx) {
		t.Fatal("first tick should start a refresh")
	}
	if p.Tick(ctx) || p.Tick(ctx) {
		t.Fatal("tick started a refresh while one was in flight")
	}
	if !p.Busy() {
		t.Fatal("expected Busy")
	}

	close(release)
	p.Wait()

	if calls.Load() != 1 || p.Skipped() != 2 {
		t.Fatalf("calls=%d skipped=%d", calls.Load(), p.Skipped())
	}
	if !p.Tick(ctx) {
		t.Fatal("tick after completion should start a refresh")
	}
	p.Wait()
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan struct{}, 16)
	var errs atomic.Int32
	p := NewPoller(5*time.Millisecond, func(ctx context.Context) error {
		ticks <- struct{}{}
		return errors.New("backend down")
	}, func(error) { errs.Add(1) })

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatal("poller did not tick")
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if p.Busy() {
		t.Fatal("refresh still running after Run returned")
	}
	if errs.Load() < 2 {
		t.Fatalf("onError called %d times", errs.Load())
	}
}

func TestPoller_NonPositiveIntervalRuns(t *testing.T) {
	defer goleak.VerifyNone(t)

	for _, interval := range []time.Duration{0, -3 * time.Second} {
		ctx, cancel := context.WithCancel(context.Background())
		ticked := make(chan struct{}, 1)
		p := NewPoller(interval, func(context.Context) error {
			select {
			case ticked <- struct{}{}:
			default:
			}
			return nil
		}, nil)
		if p.interval != DefaultPollInterval {
			t.Fatalf("interval %v became %v", interval, p.interval)
		}

		done := make(chan error, 1)
		go func() { done <- p.Run(ctx) }()
		select {
		case <-ticked:
		case <-time.After(2 * time.Second):
			t.Fatal("poller did not tick")
		}
		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v", err)
		}
	}
}
