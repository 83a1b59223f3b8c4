package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazebot-team/mazebot/go-controller/pkg/wallfollow"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, int32(250), cfg.Control.DesiredDistance)
	assert.Equal(t, int32(2500), cfg.Control.PWMNominal)
	assert.Equal(t, int32(1000), cfg.Control.PWMSwing)
	assert.Equal(t, int32(4), cfg.Control.Kp)
	assert.Equal(t, uint32(64), cfg.FilterDepth)
	assert.Equal(t, 500*time.Microsecond, cfg.SamplePeriod())
	assert.Equal(t, 10*time.Millisecond, cfg.ControlPeriod())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mazebot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"controller: rightwall\ncontrol:\n  kp: 7\n  turnticks: 50\n"), 0644))

	cfg := Load(path)
	assert.Equal(t, "rightwall", cfg.Controller)
	assert.Equal(t, int32(7), cfg.Control.Kp)
	assert.Equal(t, 50, cfg.Control.TurnTicks)
	// Untouched fields keep their defaults.
	assert.Equal(t, int32(250), cfg.Control.DesiredDistance)
	assert.Equal(t, uint32(64), cfg.FilterDepth)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg := Load("/does/not/exist.yaml")
	assert.Equal(t, Default(), cfg)
}

func TestNewControllerVariants(t *testing.T) {
	cfg := Default()
	_, ok := cfg.NewController().(*wallfollow.Centering)
	assert.True(t, ok)

	cfg.Controller = "rightwall"
	_, ok = cfg.NewController().(*wallfollow.RightWall)
	assert.True(t, ok)
}

func TestBlueWindow(t *testing.T) {
	w := Default().Blue
	assert.True(t, w.Matches(40, 100, 200))
	assert.False(t, w.Matches(120, 100, 200), "too much red")
	assert.False(t, w.Matches(40, 100, 120), "not blue enough")
	assert.False(t, w.Matches(40, 100, 250), "past the window")
}
