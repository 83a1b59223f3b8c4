package wallfollow

import (
	"github.com/mazebot-team/mazebot/go-controller/pkg/distsensor"
	"github.com/mazebot-team/mazebot/go-controller/pkg/motor"
)

// SteerConvention selects which wheel the proportional term is added to.
// Both signs are in use on real chassis, depending on how the motors are
// wired, so the choice is explicit and testable.
type SteerConvention int

const (
	// SteerAwayFromError: right duty = nominal - Kp*error,
	// left duty = nominal + Kp*error.
	SteerAwayFromError SteerConvention = iota
	// SteerIntoError: the mirror image.
	SteerIntoError
)

// Centering is the proportional wall-centering controller.  It holds the
// robot midway between the left and right walls, with a centre-distance gate
// that stops (or reverses) when something is dead ahead.
type Centering struct {
	params Params
	conv   SteerConvention

	state State

	// Last computed values, for diagnostics and the status display.
	setPoint  int32
	errorMM   int32
	dutyLeft  uint16
	dutyRight uint16
}

func NewCentering(params Params, conv SteerConvention) *Centering {
	return &Centering{
		params:    params,
		conv:      conv,
		dutyLeft:  uint16(params.PWMNominal),
		dutyRight: uint16(params.PWMNominal),
	}
}

func (c *Centering) Tick(r distsensor.Readings) motor.Command {
	p := c.params

	// Set point: midpoint of the corridor when both walls are further than
	// desired, otherwise fall back to the desired distance.
	if r.Left > p.DesiredDistance && r.Right > p.DesiredDistance {
		c.setPoint = (r.Left + r.Right) / 2
	} else {
		c.setPoint = p.DesiredDistance
	}

	// Error is measured from whichever side is closer to its wall.
	if r.Left < r.Right {
		c.errorMM = r.Left - c.setPoint
	} else {
		c.errorMM = c.setPoint - r.Right
	}

	correction := p.Kp * c.errorMM
	min, max := p.PWMNominal-p.PWMSwing, p.PWMNominal+p.PWMSwing
	switch c.conv {
	case SteerAwayFromError:
		c.dutyRight = clampDuty(p.PWMNominal-correction, min, max)
		c.dutyLeft = clampDuty(p.PWMNominal+correction, min, max)
	default:
		c.dutyRight = clampDuty(p.PWMNominal+correction, min, max)
		c.dutyLeft = clampDuty(p.PWMNominal-correction, min, max)
	}

	// Centre gate: only drive forward into open space.  The far sentinel
	// (800) reads as "open", anything nearer than desired as "blocked".
	switch {
	case r.Center > p.DesiredDistance && r.Center < distsensor.FarSentinel:
		c.state = StateForward
		return motor.Command{Op: motor.OpForward, Left: c.dutyLeft, Right: c.dutyRight}
	case p.ReverseWhenBlocked && r.Center < p.DesiredDistance-50:
		c.state = StateBackward
		return motor.Command{Op: motor.OpBackward, Left: c.dutyLeft, Right: c.dutyRight}
	default:
		c.state = StateStop
		return motor.Command{Op: motor.OpStop}
	}
}

func (c *Centering) Tune(kp, desiredDistance int32) {
	c.params.Kp = kp
	c.params.DesiredDistance = desiredDistance
}

func (c *Centering) State() State {
	return c.state
}

// SetPoint returns the target distance computed on the last tick.
func (c *Centering) SetPoint() int32 {
	return c.setPoint
}

// Error returns the signed error computed on the last tick.
func (c *Centering) Error() int32 {
	return c.errorMM
}

// DutyCycles returns the clamped duty cycles from the last tick.
func (c *Centering) DutyCycles() (left, right uint16) {
	return c.dutyLeft, c.dutyRight
}
