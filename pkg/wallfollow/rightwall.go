package wallfollow

import (
	"github.com/mazebot-team/mazebot/go-controller/pkg/distsensor"
	"github.com/mazebot-team/mazebot/go-controller/pkg/motor"
)

// RightWall follows the wall on the robot's right-hand side with discrete
// maneuvers: drive while the wall is there, pivot right to reacquire it when
// it falls away, and take a timed left pivot at inside corners.
//
// The left pivot is a counted state spanning TurnTicks controller ticks, so
// the tick handler never blocks and sampling carries on underneath the
// maneuver.
type RightWall struct {
	params Params

	state     State
	turnTicks int // remaining ticks of an in-progress left pivot
}

func NewRightWall(params Params) *RightWall {
	return &RightWall{params: params}
}

func (c *RightWall) Tick(r distsensor.Readings) motor.Command {
	p := c.params

	if c.state == StateTurnLeft {
		c.turnTicks--
		if c.turnTicks > 0 {
			return motor.Command{Op: motor.OpLeft, Left: uint16(p.TurnDuty), Right: uint16(p.TurnDuty)}
		}
		// Pivot complete; stop and let the next tick re-evaluate.
		c.state = StateStop
		return motor.Command{Op: motor.OpStop}
	}

	switch {
	case r.Center > p.DesiredDistance && r.Right < p.DesiredDistance:
		// Open ahead, wall on the right: drive.
		c.state = StateForward
		return motor.Command{Op: motor.OpForward, Left: uint16(p.PWMNominal), Right: uint16(p.PWMNominal)}
	case r.Right > p.DesiredDistance:
		// Wall on the right fell away: pivot toward it.
		c.state = StateTurnRight
		return motor.Command{Op: motor.OpRight, Left: uint16(p.TurnDuty), Right: uint16(p.TurnDuty)}
	case r.Center <= p.DesiredDistance && r.Right < p.DesiredDistance:
		// Inside corner: wall ahead and to the right.  Start the timed
		// left pivot.
		c.state = StateTurnLeft
		c.turnTicks = p.TurnTicks
		return motor.Command{Op: motor.OpLeft, Left: uint16(p.TurnDuty), Right: uint16(p.TurnDuty)}
	default:
		c.state = StateStop
		return motor.Command{Op: motor.OpStop}
	}
}

func (c *RightWall) Tune(kp, desiredDistance int32) {
	c.params.Kp = kp
	c.params.DesiredDistance = desiredDistance
}

func (c *RightWall) State() State {
	return c.state
}

// TurnTicksRemaining reports how much of a left pivot is left, 0 when not
// turning.
func (c *RightWall) TurnTicksRemaining() int {
	return c.turnTicks
}

var _ Controller = (*RightWall)(nil)
var _ Controller = (*Centering)(nil)
