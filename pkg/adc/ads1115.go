package adc

import (
	"fmt"
	"time"

	"golang.org/x/exp/io/i2c"
)

const (
	DefaultAddr = 0x48

	RegConversion = 0x00
	RegConfig     = 0x01

	// Config register fields.
	ConfigOS        = 0x8000 // write: start single conversion; read: 1 = idle
	ConfigMuxAIN0   = 0x4000 // single-ended AIN0..AIN2 select 100/101/110
	ConfigPGA4V     = 0x0200 // +-4.096V full scale
	ConfigModeSingl = 0x0100
	ConfigRate860   = 0x00E0 // fastest rate, ~1.2ms per conversion
	ConfigCompOff   = 0x0003
)

// Channel assignment mirrors the robot's wiring: right sensor on AIN0,
// center on AIN1, left on AIN2.
var channelMux = [3]uint16{ConfigMuxAIN0, ConfigMuxAIN0 + 0x1000, ConfigMuxAIN0 + 0x2000}

// ADS1115 reads the three sensor channels from a 16-bit I2C ADC.  The chip
// has a single converter behind a mux, so a "synchronized" conversion is a
// back-to-back sweep of the three channels; at 860 SPS the whole sweep is
// bounded at about 4ms.
type ADS1115 struct {
	dev *i2c.Device
}

func NewADS1115(deviceFile string, addr int) (*ADS1115, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: deviceFile}, addr)
	if err != nil {
		return nil, err
	}
	return &ADS1115{dev: dev}, nil
}

func (a *ADS1115) StartConversion() (right, center, left uint32, err error) {
	var codes [3]uint32
	for ch := 0; ch < 3; ch++ {
		codes[ch], err = a.convertChannel(ch)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("ADS1115 channel %d: %v", ch, err)
		}
	}
	return codes[0], codes[1], codes[2], nil
}

func (a *ADS1115) convertChannel(ch int) (uint32, error) {
	cfg := uint16(ConfigOS|ConfigPGA4V|ConfigModeSingl|ConfigRate860|ConfigCompOff) | channelMux[ch]
	err := a.dev.WriteReg(RegConfig, []byte{byte(cfg >> 8), byte(cfg)})
	if err != nil {
		return 0, err
	}

	// Bounded busy-wait on the conversion-complete flag.
	var buf [2]byte
	for i := 0; ; i++ {
		err = a.dev.ReadReg(RegConfig, buf[:])
		if err != nil {
			return 0, err
		}
		if uint16(buf[0])<<8&ConfigOS != 0 {
			break
		}
		if i > 40 {
			return 0, fmt.Errorf("conversion did not complete")
		}
		time.Sleep(100 * time.Microsecond)
	}

	err = a.dev.ReadReg(RegConversion, buf[:])
	if err != nil {
		return 0, err
	}
	raw := int16(uint16(buf[0])<<8 | uint16(buf[1]))
	if raw < 0 {
		raw = 0
	}
	// Drop to the 14-bit range the calibration curve was fitted against.
	return uint32(raw) >> 1, nil
}

func (a *ADS1115) Close() error {
	return a.dev.Close()
}
