package periodic

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunsAtRequestedRate(t *testing.T) {
	var n atomic.Uint64
	r := New("test", 5*time.Millisecond, func() { n.Add(1) })

	r.Start(context.Background())
	time.Sleep(300 * time.Millisecond)
	r.Stop()

	// Allow plenty of scheduling slack; the point is "many ticks", not
	// hard real time.
	got := n.Load()
	assert.Greater(t, got, uint64(20))
	assert.Equal(t, got, r.Ticks())
	assert.Equal(t, uint64(0), r.Overruns())
}

func TestStopIsDeterministic(t *testing.T) {
	var n atomic.Uint64
	r := New("test", time.Millisecond, func() { n.Add(1) })

	r.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	r.Stop()

	after := n.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, n.Load(), "task ran after Stop returned")
}

func TestContextCancelStopsRunner(t *testing.T) {
	var n atomic.Uint64
	ctx, cancel := context.WithCancel(context.Background())
	r := New("test", time.Millisecond, func() { n.Add(1) })

	r.Start(ctx)
	time.Sleep(10 * time.Millisecond)
	cancel()
	time.Sleep(10 * time.Millisecond)
	after := n.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, n.Load())
}

func TestOverrunCounter(t *testing.T) {
	r := New("slow", time.Millisecond, func() { time.Sleep(5 * time.Millisecond) })

	r.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	r.Stop()

	assert.Greater(t, r.Overruns(), uint64(0))
	assert.Equal(t, r.Ticks(), r.Overruns(), "every tick of a 5ms task overruns a 1ms period")
}

func TestRunnersAreIndependent(t *testing.T) {
	var fast, slow atomic.Uint64
	rf := New("fast", time.Millisecond, func() { fast.Add(1) })
	rs := New("slow", 10*time.Millisecond, func() { slow.Add(1) })

	rf.Start(context.Background())
	rs.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	rf.Stop()
	rs.Stop()

	assert.Greater(t, fast.Load(), slow.Load())
	assert.Greater(t, slow.Load(), uint64(3))
}
