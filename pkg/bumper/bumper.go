// Package bumper watches the six front bumper switches.  The switches are
// active low; any falling edge means the chassis hit something and the
// registered handler is called with the state of all six switches.
package bumper

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

const NumSwitches = 6

// DefaultPins is the bumper wiring on the robot, rightmost switch first.
var DefaultPins = []string{"GPIO16", "GPIO17", "GPIO22", "GPIO23", "GPIO24", "GPIO25"}

// Bumpers delivers collision events.  Exactly one handler, fixed at New.
type Bumpers struct {
	pins    []gpio.PinIO
	onPress func(pressed uint8)

	stop chan struct{}
	wg   sync.WaitGroup
}

// New opens the six switch pins and starts watching them.  onPress runs on
// a watcher goroutine with a bitmask of the currently pressed switches
// (bit 0 = rightmost switch).
func New(pinNames []string, onPress func(pressed uint8)) (*Bumpers, error) {
	if len(pinNames) != NumSwitches {
		return nil, fmt.Errorf("need %d bumper pins, got %d", NumSwitches, len(pinNames))
	}
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	b := &Bumpers{onPress: onPress, stop: make(chan struct{})}
	for _, name := range pinNames {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("no such pin: %s", name)
		}
		if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return nil, fmt.Errorf("pin %s: %v", name, err)
		}
		b.pins = append(b.pins, pin)
	}

	for _, pin := range b.pins {
		b.wg.Add(1)
		go b.watch(pin)
	}
	return b, nil
}

func (b *Bumpers) watch(pin gpio.PinIO) {
	defer b.wg.Done()
	for {
		select {
		case <-b.stop:
			return
		default:
		}
		if !pin.WaitForEdge(500 * time.Millisecond) {
			continue
		}
		b.onPress(b.Read())
	}
}

// Read returns the pressed switches as a bitmask.  Pressed reads low on the
// pin, high in the mask.
func (b *Bumpers) Read() uint8 {
	var mask uint8
	for i, pin := range b.pins {
		if pin.Read() == gpio.Low {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// Stop shuts down the watcher goroutines.
func (b *Bumpers) Stop() {
	close(b.stop)
	for _, pin := range b.pins {
		_ = pin.Halt()
	}
	b.wg.Wait()
}
