package main

import (
	"fmt"
	"time"

	"github.com/mazebot-team/mazebot/go-controller/pkg/motor"
)

func main() {
	board, err := motor.NewBoard("/dev/i2c-1")
	if err != nil {
		fmt.Println("Failed to open motor board", err)
		return
	}
	defer board.Close()
	defer board.Stop()

	duty := uint16(motor.PWMPeriod / 6)

	fmt.Println("Forward")
	board.Forward(duty, duty)
	time.Sleep(2 * time.Second)

	fmt.Println("Backward")
	board.Backward(duty, duty)
	time.Sleep(2 * time.Second)

	fmt.Println("Pivot left")
	board.Left(duty, duty)
	time.Sleep(1 * time.Second)

	fmt.Println("Pivot right")
	board.Right(duty, duty)
	time.Sleep(1 * time.Second)

	fmt.Println("Stop")
	board.Stop()
}
