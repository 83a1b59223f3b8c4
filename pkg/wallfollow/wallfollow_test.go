package wallfollow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazebot-team/mazebot/go-controller/pkg/adc"
	"github.com/mazebot-team/mazebot/go-controller/pkg/distsensor"
	"github.com/mazebot-team/mazebot/go-controller/pkg/motor"
	"github.com/mazebot-team/mazebot/go-controller/pkg/tunable"
)

func readings(left, center, right int32) distsensor.Readings {
	return distsensor.Readings{Left: left, Center: center, Right: right}
}

func TestSetPointSelection(t *testing.T) {
	c := NewCentering(DefaultParams(), SteerAwayFromError)

	// Both walls further than desired: set point is the corridor midpoint.
	c.Tick(readings(300, 500, 300))
	assert.Equal(t, int32(300), c.SetPoint())

	// One wall nearer than desired: fall back to the desired distance.
	c.Tick(readings(200, 500, 300))
	assert.Equal(t, int32(250), c.SetPoint())
}

func TestErrorFromCloserSide(t *testing.T) {
	c := NewCentering(DefaultParams(), SteerAwayFromError)

	// Left is closer: error = left - setpoint.
	c.Tick(readings(230, 500, 300))
	assert.Equal(t, int32(230-250), c.Error())

	// Right is closer (left < right is false): error = setpoint - right.
	c.Tick(readings(300, 500, 230))
	assert.Equal(t, int32(250-230), c.Error())
}

// The worked scenario, pinned to the SteerAwayFromError convention:
// left=260, right=240, desired=250, Kp=4, nominal=2500, swing=1000.
func TestProportionalScenarioSteerAway(t *testing.T) {
	c := NewCentering(DefaultParams(), SteerAwayFromError)
	cmd := c.Tick(readings(260, 500, 240))

	assert.Equal(t, int32(250), c.SetPoint())
	assert.Equal(t, int32(10), c.Error())
	assert.Equal(t, motor.OpForward, cmd.Op)
	assert.Equal(t, uint16(2460), cmd.Right)
	assert.Equal(t, uint16(2540), cmd.Left)
}

func TestProportionalScenarioSteerInto(t *testing.T) {
	c := NewCentering(DefaultParams(), SteerIntoError)
	cmd := c.Tick(readings(260, 500, 240))

	assert.Equal(t, uint16(2540), cmd.Right)
	assert.Equal(t, uint16(2460), cmd.Left)
}

func TestClampSaturation(t *testing.T) {
	c := NewCentering(DefaultParams(), SteerAwayFromError)

	// Both walls past desired, so error = (left-right)/2 = 525mm and the
	// 2100-count correction blows past the 1000 swing.
	c.Tick(readings(1600, 500, 550))
	l1, r1 := c.DutyCycles()
	assert.Equal(t, uint16(1500), r1, "clamped to nominal-swing")
	assert.Equal(t, uint16(3500), l1, "clamped to nominal+swing")

	// A bigger error must not move the saturated output.
	c.Tick(readings(1800, 500, 550))
	l2, r2 := c.DutyCycles()
	assert.Equal(t, r1, r2)
	assert.Equal(t, l1, l2)
}

func TestCenterGate(t *testing.T) {
	p := DefaultParams()
	c := NewCentering(p, SteerAwayFromError)

	// Open corridor: forward.
	cmd := c.Tick(readings(300, 500, 300))
	assert.Equal(t, motor.OpForward, cmd.Op)
	assert.Equal(t, StateForward, c.State())

	// Obstacle dead ahead: stop.
	cmd = c.Tick(readings(300, 240, 300))
	assert.Equal(t, motor.OpStop, cmd.Op)
	assert.Equal(t, StateStop, c.State())

	// Far sentinel ahead reads as "no reliable reading", also stop: the
	// gate requires desired < center < 800.
	cmd = c.Tick(readings(300, distsensor.FarSentinel, 300))
	assert.Equal(t, motor.OpStop, cmd.Op)
}

func TestReverseWhenBlocked(t *testing.T) {
	p := DefaultParams()
	p.ReverseWhenBlocked = true
	c := NewCentering(p, SteerAwayFromError)

	cmd := c.Tick(readings(300, 150, 300))
	assert.Equal(t, motor.OpBackward, cmd.Op)
	assert.Equal(t, StateBackward, c.State())

	// Between desired-50 and desired: just stop.
	cmd = c.Tick(readings(300, 230, 300))
	assert.Equal(t, motor.OpStop, cmd.Op)
}

// Side sensors at the far sentinel, nothing reliable anywhere: the
// proportional math still runs and commands nominal forward duty.  There is
// no "all sensors lost" recovery state; this test pins that so any change
// to it is deliberate.
func TestFarSentinelSidesStillDriveForward(t *testing.T) {
	c := NewCentering(DefaultParams(), SteerAwayFromError)

	s := int32(distsensor.FarSentinel)
	cmd := c.Tick(distsensor.Readings{Left: s, Center: s - 1, Right: s})
	assert.Equal(t, motor.OpForward, cmd.Op)
	assert.Equal(t, s, c.SetPoint())
	assert.Equal(t, int32(0), c.Error())
	assert.Equal(t, uint16(2500), cmd.Left)
	assert.Equal(t, uint16(2500), cmd.Right)
}

func TestRightWallTransitions(t *testing.T) {
	p := DefaultParams()
	p.TurnTicks = 3
	c := NewRightWall(p)

	// Wall on the right, open ahead: drive.
	cmd := c.Tick(readings(800, 500, 150))
	assert.Equal(t, motor.OpForward, cmd.Op)
	assert.Equal(t, StateForward, c.State())

	// Right wall fell away: pivot right to reacquire.
	cmd = c.Tick(readings(800, 500, 700))
	assert.Equal(t, motor.OpRight, cmd.Op)
	assert.Equal(t, StateTurnRight, c.State())

	// Neither condition (right exactly at desired): stop.
	cmd = c.Tick(readings(800, 100, 250))
	assert.Equal(t, motor.OpStop, cmd.Op)
	assert.Equal(t, StateStop, c.State())
}

func TestRightWallTurnLeftIsNonBlocking(t *testing.T) {
	p := DefaultParams()
	p.TurnTicks = 5
	c := NewRightWall(p)

	// Inside corner: wall ahead and to the right.
	cmd := c.Tick(readings(800, 100, 150))
	require.Equal(t, motor.OpLeft, cmd.Op)
	require.Equal(t, StateTurnLeft, c.State())

	// The pivot holds for TurnTicks ticks regardless of what the sensors
	// say (open-loop maneuver), then stops and re-evaluates.
	for i := 0; i < p.TurnTicks-1; i++ {
		cmd = c.Tick(readings(800, 500, 150))
		require.Equal(t, motor.OpLeft, cmd.Op, "tick %d", i)
	}
	cmd = c.Tick(readings(800, 500, 150))
	assert.Equal(t, motor.OpStop, cmd.Op)
	assert.Equal(t, StateStop, c.State())

	// Next tick resumes normal wall following.
	cmd = c.Tick(readings(800, 500, 150))
	assert.Equal(t, motor.OpForward, cmd.Op)
}

func TestLoopIssuesCommandsAndHalts(t *testing.T) {
	// Raw code 3000 calibrates to 655mm: open corridor on all three
	// channels, inside the centre gate.
	dev := adc.Dummy()
	dev.Set(3000, 3000, 3000)
	sampler, err := distsensor.NewSampler(dev, 1)
	require.NoError(t, err)
	sampler.Sample()

	motors := motor.Dummy()
	c := NewCentering(DefaultParams(), SteerAwayFromError)
	l := NewLoop(sampler, motors, c)

	l.Tick()
	assert.Equal(t, motor.OpForward, motors.Last().Op)

	r, state, cmd := l.Status()
	assert.Equal(t, StateForward, state, "status reflects the last controller tick")
	assert.Equal(t, motor.OpForward, cmd.Op)
	assert.Equal(t, distsensor.Calibrate(3000), r.Center)

	l.Halt()
	l.Tick()
	assert.Equal(t, motor.OpStop, motors.Last().Op)
}

func TestLoopLiveTuning(t *testing.T) {
	dev := adc.Dummy()
	dev.Set(3000, 3000, 3000)
	sampler, err := distsensor.NewSampler(dev, 1)
	require.NoError(t, err)
	sampler.Sample()

	c := NewCentering(DefaultParams(), SteerAwayFromError)
	l := NewLoop(sampler, motor.Dummy(), c)
	ts := &tunable.Tunables{}
	l.EnableTuning(ts, DefaultParams())

	ts.Find("kp").Set(9)
	l.Tick()
	assert.Equal(t, int32(9), c.params.Kp, "tick picks up the new gain")
}
