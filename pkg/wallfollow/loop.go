package wallfollow

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mazebot-team/mazebot/go-controller/pkg/distsensor"
	"github.com/mazebot-team/mazebot/go-controller/pkg/motor"
	"github.com/mazebot-team/mazebot/go-controller/pkg/tunable"
)

// Tuner is implemented by controllers whose gains can be adjusted while
// the loop is running.
type Tuner interface {
	Tune(kp, desiredDistance int32)
}

// Loop glues the controller onto the hardware: each Tick reads the latest
// snapshot from the sampler, runs the controller, and issues the resulting
// motor command.  Tick is registered with the 100 Hz periodic runner.
type Loop struct {
	sampler    *distsensor.Sampler
	motors     motor.Interface
	controller Controller

	halted atomic.Bool

	kpT      *tunable.Tunable
	desiredT *tunable.Tunable

	lock         sync.Mutex
	lastCmd      motor.Command
	lastState    State
	lastReadings distsensor.Readings
}

func NewLoop(sampler *distsensor.Sampler, motors motor.Interface, controller Controller) *Loop {
	return &Loop{
		sampler:    sampler,
		motors:     motors,
		controller: controller,
	}
}

// Tick runs one controller cycle.  Owned by the controller runner; nothing
// else may command the motors while the loop is running.
func (l *Loop) Tick() {
	if l.halted.Load() {
		if err := l.motors.Stop(); err != nil {
			fmt.Println("Failed to stop motors:", err)
		}
		return
	}

	if l.kpT != nil {
		if t, ok := l.controller.(Tuner); ok {
			t.Tune(int32(l.kpT.Get()), int32(l.desiredT.Get()))
		}
	}

	r := l.sampler.Latest()
	cmd := l.controller.Tick(r)
	l.issue(cmd)

	l.lock.Lock()
	l.lastCmd = cmd
	l.lastState = l.controller.State()
	l.lastReadings = r
	l.lock.Unlock()
}

func (l *Loop) issue(cmd motor.Command) {
	var err error
	switch cmd.Op {
	case motor.OpForward:
		err = l.motors.Forward(cmd.Left, cmd.Right)
	case motor.OpBackward:
		err = l.motors.Backward(cmd.Left, cmd.Right)
	case motor.OpLeft:
		err = l.motors.Left(cmd.Left, cmd.Right)
	case motor.OpRight:
		err = l.motors.Right(cmd.Left, cmd.Right)
	default:
		err = l.motors.Stop()
	}
	if err != nil {
		fmt.Println("Motor command failed:", err)
	}
}

// EnableTuning registers the live-adjustable gains with the given tunable
// set, seeded from p.  The loop picks the current values up at the start
// of every tick.
func (l *Loop) EnableTuning(t *tunable.Tunables, p Params) {
	l.kpT = t.Create("kp", int(p.Kp))
	l.desiredT = t.Create("desired distance mm", int(p.DesiredDistance))
}

// Halt forces the loop to hold the motors stopped on every tick until
// Resume.  Used for bumper collisions and the end-of-run stop.
func (l *Loop) Halt() {
	l.halted.Store(true)
}

func (l *Loop) Resume() {
	l.halted.Store(false)
}

func (l *Loop) Halted() bool {
	return l.halted.Load()
}

// Noise reports the filter bank's current noise estimates, for the bench
// status prints.
func (l *Loop) Noise() (left, center, right int32) {
	return l.sampler.Noise()
}

// Status returns the snapshot, state and command from the most recent tick,
// for the status display and console prints.
func (l *Loop) Status() (distsensor.Readings, State, motor.Command) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.lastReadings, l.lastState, l.lastCmd
}
