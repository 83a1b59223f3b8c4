// Package distsensor turns raw ADC codes from the three Sharp GP2Y0A21YK0F
// sensors into calibrated millimeter distances.  It owns the fast sampling
// path: one synchronized conversion per tick, a low-pass filter per channel,
// then the calibration curve, then an atomic publish of the three distances.
package distsensor

import (
	"sync/atomic"
	"time"

	"github.com/mazebot-team/mazebot/go-controller/pkg/adc"
	"github.com/mazebot-team/mazebot/go-controller/pkg/lpf"
)

// Calibration constants fit to the sensor's inverse voltage-to-distance
// curve:  distance = CalA/(filtered + CalB) + CalC.
const (
	CalA = 1195159
	CalB = -1058
	CalC = 40

	// Below this filtered code the sensor voltage is too low for a
	// reliable reading.
	MaxThreshold = 2552

	// FarSentinel means "no reliable close-range reading"; callers treat
	// it as "no obstacle", not as an error.
	FarSentinel = 800
)

// Calibrate maps a filtered ADC code to a distance estimate in mm.  Pure;
// called once per channel per sampling tick.
func Calibrate(filtered int32) int32 {
	if filtered < MaxThreshold {
		return FarSentinel
	}
	den := filtered + CalB
	if den <= 0 {
		// Unreachable for in-range inputs (MaxThreshold+CalB > 0); only
		// adversarial constants get here.  Treat as an unreliable reading
		// rather than divide by zero.
		return FarSentinel
	}
	return CalA/den + CalC
}

// Readings is one consistent snapshot of the three channels: all six values
// come from the same conversion sweep.
type Readings struct {
	CaptureTime time.Time

	// Filtered ADC codes, left/center/right.
	FilteredLeft   uint32
	FilteredCenter uint32
	FilteredRight  uint32

	// Calibrated distances in mm.
	Left   int32
	Center int32
	Right  int32
}

// Sampler runs the fast sampling task.  Sample is called from the high-rate
// periodic runner; Latest may be called concurrently from the controller
// tick and always sees a complete snapshot (never a torn mix of two sweeps).
type Sampler struct {
	adc     adc.Interface
	left    *lpf.LowPass
	center  *lpf.LowPass
	right   *lpf.LowPass
	latest  atomic.Value // Readings
	errs    atomic.Uint64
	lastErr atomic.Value // error
}

// NewSampler primes the three filters with a first conversion so that the
// filters start at the current sensor level instead of ramping from zero.
func NewSampler(dev adc.Interface, depth uint32) (*Sampler, error) {
	rawR, rawC, rawL, err := dev.StartConversion()
	if err != nil {
		return nil, err
	}
	s := &Sampler{
		adc:    dev,
		left:   lpf.New(rawL, depth),
		center: lpf.New(rawC, depth),
		right:  lpf.New(rawR, depth),
	}
	s.latest.Store(s.snapshot(rawR, rawC, rawL))
	return s, nil
}

// Sample performs one sampling tick: convert, filter, calibrate, publish.
func (s *Sampler) Sample() {
	rawR, rawC, rawL, err := s.adc.StartConversion()
	if err != nil {
		// Keep the previous snapshot; the controller keeps driving on
		// slightly stale data rather than on garbage.
		s.errs.Add(1)
		s.lastErr.Store(err)
		return
	}
	s.latest.Store(s.snapshot(rawR, rawC, rawL))
}

func (s *Sampler) snapshot(rawR, rawC, rawL uint32) Readings {
	fr := s.right.Calc(rawR)
	fc := s.center.Calc(rawC)
	fl := s.left.Calc(rawL)
	return Readings{
		CaptureTime:    time.Now(),
		FilteredLeft:   fl,
		FilteredCenter: fc,
		FilteredRight:  fr,
		Left:           Calibrate(int32(fl)),
		Center:         Calibrate(int32(fc)),
		Right:          Calibrate(int32(fr)),
	}
}

// Latest returns the most recently published snapshot.
func (s *Sampler) Latest() Readings {
	return s.latest.Load().(Readings)
}

// Noise returns the per-channel standard deviation of the filter histories,
// left/center/right.  Diagnostic only.
func (s *Sampler) Noise() (left, center, right int32) {
	return s.left.Noise(), s.center.Noise(), s.right.Noise()
}

// ConversionErrors reports how many sampling ticks failed to convert, and
// the most recent failure.
func (s *Sampler) ConversionErrors() (uint64, error) {
	n := s.errs.Load()
	err, _ := s.lastErr.Load().(error)
	return n, err
}
