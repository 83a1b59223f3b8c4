// Package motor drives the two DC motors.  Duty cycles are PWM on-time
// counts in [0, PWMPeriod); direction comes from which method is called, so
// commands are idempotent and can be re-issued every controller tick.
package motor

import (
	"fmt"
	"sync"
)

// PWMPeriod is the PWM timer period constant.  Duty cycle counts are
// compared against this, so full speed is PWMPeriod-1.
const PWMPeriod = 15000

type Interface interface {
	// Forward drives both wheels forward at the given duty cycles.
	Forward(leftDuty, rightDuty uint16) error
	// Backward drives both wheels backward.
	Backward(leftDuty, rightDuty uint16) error
	// Left pivots left: left wheel backward, right wheel forward.
	Left(leftDuty, rightDuty uint16) error
	// Right pivots right: left wheel forward, right wheel backward.
	Right(leftDuty, rightDuty uint16) error
	// Stop disables both motors and zeroes the duty cycles.
	Stop() error
	Close() error
}

// Op identifies a motor command for logging and tests.
type Op int

const (
	OpStop Op = iota
	OpForward
	OpBackward
	OpLeft
	OpRight
)

func (o Op) String() string {
	switch o {
	case OpStop:
		return "stop"
	case OpForward:
		return "forward"
	case OpBackward:
		return "backward"
	case OpLeft:
		return "left"
	case OpRight:
		return "right"
	}
	return "unknown"
}

// Command is one issued motor command.
type Command struct {
	Op          Op
	Left, Right uint16
}

// Dummy returns a motor that records the commands it is given.  Used by
// tests and when running without hardware.
func Dummy() *DummyMotor {
	return &DummyMotor{}
}

type DummyMotor struct {
	lock     sync.Mutex
	Commands []Command
}

func (d *DummyMotor) record(c Command) error {
	d.lock.Lock()
	d.Commands = append(d.Commands, c)
	d.lock.Unlock()
	return nil
}

func (d *DummyMotor) Forward(l, r uint16) error  { return d.record(Command{OpForward, l, r}) }
func (d *DummyMotor) Backward(l, r uint16) error { return d.record(Command{OpBackward, l, r}) }
func (d *DummyMotor) Left(l, r uint16) error     { return d.record(Command{OpLeft, l, r}) }
func (d *DummyMotor) Right(l, r uint16) error    { return d.record(Command{OpRight, l, r}) }
func (d *DummyMotor) Stop() error                { return d.record(Command{Op: OpStop}) }

func (d *DummyMotor) Close() error {
	fmt.Println("Dummy motor closed")
	return nil
}

// Last returns the most recent command, or a stop if none has been issued.
func (d *DummyMotor) Last() Command {
	d.lock.Lock()
	defer d.lock.Unlock()
	if len(d.Commands) == 0 {
		return Command{Op: OpStop}
	}
	return d.Commands[len(d.Commands)-1]
}
