// Package config holds everything about the robot that is tunable without
// recompiling: control constants, rates, device paths, and the colour
// thresholds that end a run.  Defaults are compiled in and a YAML file can
// override any subset of them.
package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/mazebot-team/mazebot/go-controller/pkg/wallfollow"
)

const DefaultPath = "/cfg/mazebot.yaml"

type Config struct {
	// Hardware device paths and addresses.
	I2CDevice string `yaml:"i2cdevice"`
	ADCAddr   int    `yaml:"adcaddr"`

	// Sampling pipeline.
	FilterDepth  uint32 `yaml:"filterdepth"`
	SampleRateHz int    `yaml:"samplerate"`
	ControlRateHz int   `yaml:"controlrate"`

	// Which controller runs, and with which steering sign.
	// Controller: "centering" or "rightwall".
	Controller string `yaml:"controller"`
	// Steer: "away" (right duty = nominal - Kp*error) or "into".
	Steer string `yaml:"steer"`

	Control wallfollow.Params `yaml:"control"`

	// Stop-colour window, 8-bit normalized channel values.
	Blue BlueWindow `yaml:"blue"`

	// Optional extras.
	Sounds     bool   `yaml:"sounds"`
	SoundDir   string `yaml:"sounddir"`
	Screen     bool   `yaml:"screen"`
	ScreenDev  string `yaml:"screendev"`
	CameraID   int    `yaml:"cameraid"`
}

// BlueWindow is the acceptance window for the "blue marker seen, run over"
// check.
type BlueWindow struct {
	RedMax   uint32 `yaml:"redmax"`
	GreenMax uint32 `yaml:"greenmax"`
	BlueMin  uint32 `yaml:"bluemin"`
	BlueMax  uint32 `yaml:"bluemax"`
}

// Matches reports whether an 8-bit RGB triple falls inside the window.
func (w BlueWindow) Matches(red, green, blue uint32) bool {
	return red <= w.RedMax && green <= w.GreenMax && blue >= w.BlueMin && blue <= w.BlueMax
}

func Default() Config {
	return Config{
		I2CDevice:     "/dev/i2c-1",
		ADCAddr:       0x48,
		FilterDepth:   64,
		SampleRateHz:  2000,
		ControlRateHz: 100,
		Controller:    "centering",
		Steer:         "away",
		Control:       wallfollow.DefaultParams(),
		Blue: BlueWindow{
			RedMax:   90,
			GreenMax: 130,
			BlueMin:  180,
			BlueMax:  240,
		},
		Sounds:    false,
		SoundDir:  "/sounds",
		Screen:    false,
		ScreenDev: "/dev/fb1",
		CameraID:  0,
	}
}

// Load returns the defaults overlaid with whatever the YAML file at path
// provides.  A missing or broken file is reported and otherwise ignored, so
// the robot always comes up with a usable configuration.
func Load(path string) Config {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Config:", err, "- using defaults")
		return cfg
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		fmt.Println("Config: failed to parse", path, ":", err, "- using defaults")
		return Default()
	}
	return cfg
}

// SamplePeriod returns the sampling tick period.
func (c Config) SamplePeriod() time.Duration {
	return time.Second / time.Duration(c.SampleRateHz)
}

// ControlPeriod returns the controller tick period.
func (c Config) ControlPeriod() time.Duration {
	return time.Second / time.Duration(c.ControlRateHz)
}

// NewController builds the configured controller variant.
func (c Config) NewController() wallfollow.Controller {
	steer := wallfollow.SteerAwayFromError
	if c.Steer == "into" {
		steer = wallfollow.SteerIntoError
	}
	if c.Controller == "rightwall" {
		return wallfollow.NewRightWall(c.Control)
	}
	return wallfollow.NewCentering(c.Control, steer)
}
