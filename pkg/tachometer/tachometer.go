// Package tachometer tracks wheel rotation from the quadrature encoders.
// Each rising edge on a wheel's A channel advances the step counter; the B
// channel level at that instant gives the direction.  Shares the control
// core's concurrency pattern: edge handlers are the only writers, everyone
// else reads snapshots.
package tachometer

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// Direction of the last observed movement of a wheel.
type Direction int

const (
	Stopped Direction = iota
	Forward
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "FORWARD"
	case Reverse:
		return "REVERSE"
	}
	return "STOPPED"
}

// Wheel accumulates encoder state for one wheel.  Edge is the producer
// (called from the edge-capture goroutine); Snapshot is the consumer side.
type Wheel struct {
	lock     sync.Mutex
	prevEdge time.Time
	lastEdge time.Time
	steps    int32
	dir      Direction
}

// Edge records one rising edge of the A channel.  bHigh is the B channel
// level at the edge: high means the wheel is turning forward.
func (w *Wheel) Edge(bHigh bool, now time.Time) {
	w.lock.Lock()
	w.prevEdge = w.lastEdge
	w.lastEdge = now
	if bHigh {
		w.steps++
		w.dir = Forward
	} else {
		w.steps--
		w.dir = Reverse
	}
	w.lock.Unlock()
}

// Snapshot returns the interval between the last two edges (the period of
// one encoder step), the direction of last movement, and the signed step
// count.
func (w *Wheel) Snapshot() (interval time.Duration, dir Direction, steps int32) {
	w.lock.Lock()
	defer w.lock.Unlock()
	if !w.prevEdge.IsZero() {
		interval = w.lastEdge.Sub(w.prevEdge)
	}
	return interval, w.dir, w.steps
}

// Tachometer watches both wheels' encoder pins.
type Tachometer struct {
	Left  Wheel
	Right Wheel

	leftA, leftB   gpio.PinIO
	rightA, rightB gpio.PinIO

	stop chan struct{}
	wg   sync.WaitGroup
}

// New opens the four encoder pins by name (e.g. "GPIO20") and starts the
// edge-capture goroutines.
func New(leftA, leftB, rightA, rightB string) (*Tachometer, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	t := &Tachometer{stop: make(chan struct{})}

	var err error
	if t.leftA, err = openEdgePin(leftA); err != nil {
		return nil, err
	}
	if t.leftB, err = openLevelPin(leftB); err != nil {
		return nil, err
	}
	if t.rightA, err = openEdgePin(rightA); err != nil {
		return nil, err
	}
	if t.rightB, err = openLevelPin(rightB); err != nil {
		return nil, err
	}

	t.wg.Add(2)
	go t.captureLoop(&t.Left, t.leftA, t.leftB)
	go t.captureLoop(&t.Right, t.rightA, t.rightB)
	return t, nil
}

func openEdgePin(name string) (gpio.PinIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("no such pin: %s", name)
	}
	if err := pin.In(gpio.PullUp, gpio.RisingEdge); err != nil {
		return nil, fmt.Errorf("pin %s: %v", name, err)
	}
	return pin, nil
}

func openLevelPin(name string) (gpio.PinIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("no such pin: %s", name)
	}
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("pin %s: %v", name, err)
	}
	return pin, nil
}

func (t *Tachometer) captureLoop(w *Wheel, a, b gpio.PinIO) {
	defer t.wg.Done()
	for {
		select {
		case <-t.stop:
			return
		default:
		}
		if !a.WaitForEdge(500 * time.Millisecond) {
			continue // timeout, poll the stop channel again
		}
		w.Edge(b.Read() == gpio.High, time.Now())
	}
}

// Stop shuts down the capture goroutines.
func (t *Tachometer) Stop() {
	close(t.stop)
	// Halt unblocks any in-progress WaitForEdge.
	_ = t.leftA.Halt()
	_ = t.rightA.Halt()
	t.wg.Wait()
}
