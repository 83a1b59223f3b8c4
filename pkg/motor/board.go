package motor

import (
	"fmt"

	"golang.org/x/exp/io/i2c"
)

// Register map of the motor hat.  Duty cycles are two 16-bit little-endian
// registers; direction and enable are bitmasks.
const (
	BoardAddr = 0x42

	RegDutyLeft  = 0x10
	RegDutyRight = 0x12
	RegDirection = 0x14
	RegEnable    = 0x15

	DirLeftReverse  = 0x01
	DirRightReverse = 0x02
	EnableBoth      = 0x03
)

// Board talks to the motor driver hat over I2C.
type Board struct {
	dev *i2c.Device
}

func NewBoard(deviceFile string) (*Board, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: deviceFile}, BoardAddr)
	if err != nil {
		return nil, err
	}
	b := &Board{dev: dev}
	if err := b.Stop(); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("motor board not responding: %v", err)
	}
	return b, nil
}

func (b *Board) command(dir byte, leftDuty, rightDuty uint16) error {
	if leftDuty >= PWMPeriod {
		leftDuty = PWMPeriod - 1
	}
	if rightDuty >= PWMPeriod {
		rightDuty = PWMPeriod - 1
	}
	// Direction first so a duty-cycle update never drives the old
	// direction at the new speed.
	if err := b.dev.WriteReg(RegDirection, []byte{dir}); err != nil {
		return err
	}
	err := b.dev.WriteReg(RegDutyLeft, []byte{byte(leftDuty), byte(leftDuty >> 8)})
	if err != nil {
		return err
	}
	err = b.dev.WriteReg(RegDutyRight, []byte{byte(rightDuty), byte(rightDuty >> 8)})
	if err != nil {
		return err
	}
	return b.dev.WriteReg(RegEnable, []byte{EnableBoth})
}

func (b *Board) Forward(leftDuty, rightDuty uint16) error {
	return b.command(0, leftDuty, rightDuty)
}

func (b *Board) Backward(leftDuty, rightDuty uint16) error {
	return b.command(DirLeftReverse|DirRightReverse, leftDuty, rightDuty)
}

func (b *Board) Left(leftDuty, rightDuty uint16) error {
	return b.command(DirLeftReverse, leftDuty, rightDuty)
}

func (b *Board) Right(leftDuty, rightDuty uint16) error {
	return b.command(DirRightReverse, leftDuty, rightDuty)
}

func (b *Board) Stop() error {
	if err := b.dev.WriteReg(RegEnable, []byte{0}); err != nil {
		return err
	}
	if err := b.dev.WriteReg(RegDutyLeft, []byte{0, 0}); err != nil {
		return err
	}
	return b.dev.WriteReg(RegDutyRight, []byte{0, 0})
}

func (b *Board) Close() error {
	err := b.Stop()
	if cerr := b.dev.Close(); err == nil {
		err = cerr
	}
	return err
}
