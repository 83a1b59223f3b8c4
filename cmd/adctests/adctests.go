package main

import (
	"fmt"
	"time"

	"github.com/mazebot-team/mazebot/go-controller/pkg/adc"
	"github.com/mazebot-team/mazebot/go-controller/pkg/distsensor"
)

func main() {
	dev, err := adc.NewADS1115("/dev/i2c-1", 0x48)
	if err != nil {
		fmt.Println("Failed to open ADC", err)
		return
	}
	defer dev.Close()

	sampler, err := distsensor.NewSampler(dev, 64)
	if err != nil {
		fmt.Println("Failed to prime sampler", err)
		return
	}

	go func() {
		for range time.NewTicker(500 * time.Microsecond).C {
			sampler.Sample()
		}
	}()

	for range time.NewTicker(500 * time.Millisecond).C {
		r := sampler.Latest()
		nl, nc, nr := sampler.Noise()
		fmt.Printf("filtered L=%5d C=%5d R=%5d  mm L=%4d C=%4d R=%4d  noise %d/%d/%d\n",
			r.FilteredLeft, r.FilteredCenter, r.FilteredRight,
			r.Left, r.Center, r.Right, nl, nc, nr)
	}
}
