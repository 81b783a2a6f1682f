package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/netpersona/popcorn/internal/logger"
	"golang.org/x/sync/singleflight"
)

// Regenerator is implemented by Generator
type Regenerator interface {
	RegenerateAll(ctx context.Context, force bool) (*Result, error)
}

// Runner serializes regeneration and periodically checks for staleness.
// Concurrent callers with the same force flag share one in-flight run; runs
// with different flags execute one after the other.
type Runner struct {
	gen      Regenerator
	interval time.Duration
	group    singleflight.Group
	runMu    sync.Mutex

	ticker   *time.Ticker
	stopChan chan struct{}
	loopDone chan struct{}
	mu       sync.Mutex
	started  bool
	stopped  bool
}

// NewRunner creates a runner that checks every interval once started
func NewRunner(gen Regenerator, interval time.Duration) *Runner {
	return &Runner{
		gen:      gen,
		interval: interval,
		stopChan: make(chan struct{}),
		loopDone: make(chan struct{}),
	}
}

// Regenerate runs a regeneration, joining an identical one already in flight.
// The run is detached from ctx: a caller that gives up gets ctx.Err() while
// the shared run finishes in the background.
func (r *Runner) Regenerate(ctx context.Context, force bool) (*Result, error) {
	key := "check"
	if force {
		key = "force"
	}

	runCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (interface{}, error) {
		r.runMu.Lock()
		defer r.runMu.Unlock()

		r.mu.Lock()
		stopped := r.stopped
		r.mu.Unlock()
		if stopped {
			return nil, ErrRunnerStopped
		}

		return r.gen.RegenerateAll(runCtx, force)
	})

	select {
	case <-ctx.Done():
		logger.Log.Warn().
			Err(ctx.Err()).
			Bool("forced", force).
			Msg("Stopped waiting for schedule regeneration, run continues")
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			logger.Log.Debug().
				Bool("forced", force).
				Msg("Joined in-flight schedule regeneration")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Result), nil
	}
}

// Start launches the background staleness check loop
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return ErrRunnerStopped
	}
	if r.started {
		return nil
	}
	r.started = true

	r.ticker = time.NewTicker(r.interval)
	go r.runCheckLoop(ctx)

	logger.Log.Info().
		Dur("check_interval", r.interval).
		Msg("Schedule runner started")

	return nil
}

// Stop halts the check loop and waits for it to exit. An in-flight
// regeneration finishes first; runs requested afterwards fail with
// ErrRunnerStopped.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	started := r.started
	r.mu.Unlock()

	close(r.stopChan)

	if started {
		<-r.loopDone
		r.ticker.Stop()
	}

	// Wait out a run whose callers already returned
	r.runMu.Lock()
	r.runMu.Unlock() //nolint:staticcheck // SA2001

	logger.Log.Info().Msg("Schedule runner stopped")
}

func (r *Runner) runCheckLoop(ctx context.Context) {
	defer close(r.loopDone)

	logger.Log.Debug().Msg("Schedule check loop started")

	for {
		select {
		case <-r.stopChan:
			logger.Log.Debug().Msg("Schedule check loop stopping")
			return
		case <-ctx.Done():
			logger.Log.Debug().Msg("Schedule check loop context cancelled")
			return
		case <-r.ticker.C:
			if _, err := r.Regenerate(ctx, false); err != nil {
				logger.Log.Error().
					Err(err).
					Msg("Scheduled regeneration check failed")
			}
		}
	}
}
