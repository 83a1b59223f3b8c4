// Package wallfollow holds the control half of the robot: fixed-rate
// controllers that read the latest distance snapshot and decide what the
// motors should do.  Two controllers exist, matching the two behaviours the
// robot runs: a proportional wall-centering controller and a right-wall
// follower with discrete turns.
package wallfollow

import (
	"github.com/mazebot-team/mazebot/go-controller/pkg/distsensor"
	"github.com/mazebot-team/mazebot/go-controller/pkg/motor"
)

// Params are the control constants.  They are configuration, not code: the
// defaults below match the robot's tuned values but everything is adjustable
// from the YAML config.
type Params struct {
	DesiredDistance int32 `yaml:"desireddistance"` // mm
	TooClose        int32 `yaml:"tooclose"`        // mm
	TooFar          int32 `yaml:"toofar"`          // mm

	PWMNominal int32 `yaml:"pwmnominal"` // counts
	PWMSwing   int32 `yaml:"pwmswing"`   // counts
	Kp         int32 `yaml:"kp"`

	// Open-loop left pivot: duty cycle and duration in controller ticks
	// (70 ticks at 100 Hz is a 700 ms pivot).
	TurnDuty  int32 `yaml:"turnduty"`
	TurnTicks int   `yaml:"turnticks"`

	// ReverseWhenBlocked backs away when the centre reading drops well
	// under the desired distance, instead of just stopping.
	ReverseWhenBlocked bool `yaml:"reversewhenblocked"`
}

// DefaultParams returns the tuned constants for the robot's chassis.
func DefaultParams() Params {
	return Params{
		DesiredDistance:    250,
		TooClose:           200,
		TooFar:             400,
		PWMNominal:         2500,
		PWMSwing:           1000,
		Kp:                 4,
		TurnDuty:           2500,
		TurnTicks:          70,
		ReverseWhenBlocked: false,
	}
}

// State of a controller, for the status display.
type State int

const (
	StateStop State = iota
	StateForward
	StateBackward
	StateTurnLeft
	StateTurnRight
)

func (s State) String() string {
	switch s {
	case StateStop:
		return "STOP"
	case StateForward:
		return "FORWARD"
	case StateBackward:
		return "BACKWARD"
	case StateTurnLeft:
		return "TURN-L"
	case StateTurnRight:
		return "TURN-R"
	}
	return "?"
}

// Controller is one control policy: given the latest snapshot, produce the next
// motor command.  Tick is called from the 100 Hz runner and must not block.
type Controller interface {
	Tick(r distsensor.Readings) motor.Command
	State() State
}

// clampDuty saturates a raw duty value into [min, max].  Saturation is
// idempotent: once the error is large enough to hit a bound, growing it
// further does not change the output.
func clampDuty(v, min, max int32) uint16 {
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return uint16(v)
}
