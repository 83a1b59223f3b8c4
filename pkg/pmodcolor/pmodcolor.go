// Package pmodcolor drives the Digilent Pmod COLOR (TCS3472) sensor over
// I2C.  The main program polls it for a blue marker that marks the end of
// the course.
package pmodcolor

import (
	"fmt"
	"time"

	"golang.org/x/exp/io/i2c"
)

const (
	DefaultAddr = 0x29

	RegEnable   = 0x00
	RegAtime    = 0x01
	RegControl  = 0x0F
	RegDeviceID = 0x12
	RegStatus   = 0x13
	RegCDataL   = 0x14

	// Command register bits.
	CmdRepeat  = 0x08
	CmdAutoInc = 0xA0

	EnablePowerOn = 0x01
	EnableRGBC    = 0x02

	// Power-up / RGBC warm-up time.
	warmup = 2400 * time.Microsecond
)

// Data is one raw or normalized CRGB sample.
type Data struct {
	Clear uint16
	Red   uint16
	Green uint16
	Blue  uint16
}

type Interface interface {
	DeviceID() (byte, error)
	ReadRGBC() (Data, error)
	Close() error
}

// PmodColor is the real sensor.
type PmodColor struct {
	dev *i2c.Device
}

// New opens the sensor and runs the power-on sequence: power on, wait,
// enable the RGBC engine, wait again.
func New(deviceFile string) (*PmodColor, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: deviceFile}, DefaultAddr)
	if err != nil {
		return nil, err
	}
	p := &PmodColor{dev: dev}

	if err := p.enable(EnablePowerOn); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("pmod color power on: %v", err)
	}
	time.Sleep(warmup)
	if err := p.enable(EnablePowerOn | EnableRGBC); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("pmod color RGBC enable: %v", err)
	}
	time.Sleep(warmup)
	return p, nil
}

func (p *PmodColor) enable(bits byte) error {
	return p.dev.WriteReg(CmdRepeat|RegEnable, []byte{bits})
}

func (p *PmodColor) DeviceID() (byte, error) {
	var buf [1]byte
	err := p.dev.ReadReg(CmdRepeat|RegDeviceID, buf[:])
	return buf[0], err
}

// ReadRGBC burst-reads all four channels in one auto-increment transfer so
// the sample is internally consistent.
func (p *PmodColor) ReadRGBC() (Data, error) {
	var buf [8]byte
	err := p.dev.ReadReg(CmdAutoInc|RegCDataL, buf[:])
	if err != nil {
		return Data{}, err
	}
	return Data{
		Clear: uint16(buf[1])<<8 | uint16(buf[0]),
		Red:   uint16(buf[3])<<8 | uint16(buf[2]),
		Green: uint16(buf[5])<<8 | uint16(buf[4]),
		Blue:  uint16(buf[7])<<8 | uint16(buf[6]),
	}, nil
}

func (p *PmodColor) Close() error {
	return p.dev.Close()
}

// Calibration tracks the min/max seen per channel; normalizing against it
// stretches ambient readings to the full 16-bit range so the colour window
// thresholds hold up under different lighting.
type Calibration struct {
	Min Data
	Max Data
}

// NewCalibration seeds the running range with the first sample.
func NewCalibration(first Data) Calibration {
	return Calibration{Min: first, Max: first}
}

// Update widens the range with a new sample.
func (c *Calibration) Update(s Data) {
	if s.Clear < c.Min.Clear {
		c.Min.Clear = s.Clear
	}
	if s.Red < c.Min.Red {
		c.Min.Red = s.Red
	}
	if s.Green < c.Min.Green {
		c.Min.Green = s.Green
	}
	if s.Blue < c.Min.Blue {
		c.Min.Blue = s.Blue
	}
	if s.Clear > c.Max.Clear {
		c.Max.Clear = s.Clear
	}
	if s.Red > c.Max.Red {
		c.Max.Red = s.Red
	}
	if s.Green > c.Max.Green {
		c.Max.Green = s.Green
	}
	if s.Blue > c.Max.Blue {
		c.Max.Blue = s.Blue
	}
}

// Normalize maps a sample onto the observed range, 0..0xFFFF per channel.
// A channel whose range has not opened up yet normalizes to 0.
func (c Calibration) Normalize(s Data) Data {
	return Data{
		Clear: normalize(s.Clear, c.Min.Clear, c.Max.Clear),
		Red:   normalize(s.Red, c.Min.Red, c.Max.Red),
		Green: normalize(s.Green, c.Min.Green, c.Max.Green),
		Blue:  normalize(s.Blue, c.Min.Blue, c.Max.Blue),
	}
}

func normalize(v, min, max uint16) uint16 {
	if max == min {
		return 0
	}
	return (v - min) * (0xFFFF / (max - min))
}
