// Package periodic is the timing substrate the control loops run on: each
// Runner stands in for one free-running hardware countdown timer, invoking
// its task at a fixed rate from its own goroutine.  Runners are fully
// independent; a sampling tick and a controller tick can interleave
// arbitrarily.
package periodic

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Runner invokes a single task at a fixed period.  Exactly one task per
// Runner; to change the task, stop the runner and build a new one.
type Runner struct {
	name   string
	period time.Duration
	task   func()

	cancel context.CancelFunc
	wg     sync.WaitGroup

	ticks    atomic.Uint64
	overruns atomic.Uint64
}

// New registers task to run every period once Start is called.
func New(name string, period time.Duration, task func()) *Runner {
	return &Runner{name: name, period: period, task: task}
}

// Start begins the periodic invocations.  The runner stops when Stop is
// called or ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.loop(ctx)
}

// Stop disables further invocations and waits for the loop goroutine to
// exit.  An invocation already in flight when Stop is called runs to
// completion; none start after Stop returns.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}

// Ticks returns how many times the task has been invoked.
func (r *Runner) Ticks() uint64 {
	return r.ticks.Load()
}

// Overruns counts ticks whose task ran longer than the period.  A slipped
// tick is not retried; the counter makes the slip visible.
func (r *Runner) Overruns() uint64 {
	return r.overruns.Load()
}

func (r *Runner) loop(ctx context.Context) {
	defer r.wg.Done()
	defer fmt.Printf("%s runner exited after %d ticks (%d overruns)\n",
		r.name, r.ticks.Load(), r.overruns.Load())

	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		start := time.Now()
		r.task()
		r.ticks.Add(1)
		if time.Since(start) > r.period {
			r.overruns.Add(1)
		}
	}
}
