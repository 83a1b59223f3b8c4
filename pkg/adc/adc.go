// Package adc abstracts the analog front end that digitizes the three Sharp
// distance sensors.  The control core only needs one synchronized triple
// conversion per sampling tick; where the codes come from is this package's
// problem.
package adc

import (
	"fmt"
	"sync"
)

// Raw conversion results are 14-bit codes, 0..16383.
const MaxCode = 16383

// Interface is implemented by anything that can digitize the three sensor
// channels.
type Interface interface {
	// StartConversion triggers a conversion of all three channels and
	// blocks until results are available.  The latency is bounded (well
	// under one sampling period), so it is safe to call from the sampling
	// loop.  The three results are mutually consistent: they come from the
	// same conversion sequence.
	StartConversion() (right, center, left uint32, err error)
	Close() error
}

// Dummy returns an Interface whose channels read fixed values until moved
// with Set.  Used by tests and when running without hardware.
func Dummy() *DummyADC {
	return &DummyADC{right: 3000, center: 3000, left: 3000}
}

type DummyADC struct {
	lock                sync.Mutex
	right, center, left uint32
}

func (d *DummyADC) Set(right, center, left uint32) {
	d.lock.Lock()
	d.right, d.center, d.left = right, center, left
	d.lock.Unlock()
}

func (d *DummyADC) StartConversion() (right, center, left uint32, err error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.right, d.center, d.left, nil
}

func (d *DummyADC) Close() error {
	fmt.Println("Dummy ADC closed")
	return nil
}
