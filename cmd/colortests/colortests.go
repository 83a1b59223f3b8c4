package main

import (
	"fmt"
	"time"

	"github.com/mazebot-team/mazebot/go-controller/pkg/pmodcolor"
)

func main() {
	sensor, err := pmodcolor.New("/dev/i2c-1")
	if err != nil {
		fmt.Println("Failed to open colour sensor", err)
		return
	}
	defer sensor.Close()

	id, err := sensor.DeviceID()
	fmt.Printf("Device ID: %#x %v\n", id, err)

	first, err := sensor.ReadRGBC()
	if err != nil {
		fmt.Println("First read failed", err)
		return
	}
	cal := pmodcolor.NewCalibration(first)

	for range time.NewTicker(200 * time.Millisecond).C {
		raw, err := sensor.ReadRGBC()
		if err != nil {
			fmt.Println("Read failed", err)
			continue
		}
		cal.Update(raw)
		n := cal.Normalize(raw)
		fmt.Printf("raw C=%5d R=%5d G=%5d B=%5d  norm R=%5d G=%5d B=%5d\n",
			raw.Clear, raw.Red, raw.Green, raw.Blue, n.Red, n.Green, n.Blue)
	}
}
