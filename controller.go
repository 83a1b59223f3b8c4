package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/mazebot-team/mazebot/go-controller/pkg/adc"
	"github.com/mazebot-team/mazebot/go-controller/pkg/bumper"
	"github.com/mazebot-team/mazebot/go-controller/pkg/config"
	"github.com/mazebot-team/mazebot/go-controller/pkg/distsensor"
	"github.com/mazebot-team/mazebot/go-controller/pkg/motor"
	"github.com/mazebot-team/mazebot/go-controller/pkg/periodic"
	"github.com/mazebot-team/mazebot/go-controller/pkg/pmodcolor"
	"github.com/mazebot-team/mazebot/go-controller/pkg/screen"
	"github.com/mazebot-team/mazebot/go-controller/pkg/sound"
	"github.com/mazebot-team/mazebot/go-controller/pkg/tunable"
	"github.com/mazebot-team/mazebot/go-controller/pkg/wallfollow"
)

func main() {
	fmt.Print("---- Mazebot ----\n\n")
	fmt.Println("GOMAXPROCS", runtime.GOMAXPROCS(0))

	configPath := flag.String("config", config.DefaultPath, "config file")
	flag.Parse()
	cfg := config.Load(*configPath)

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		s := <-signals
		log.Println("Signal: ", s)
		cancel()
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()

	var motors motor.Interface
	motors, err := motor.NewBoard(cfg.I2CDevice)
	if err != nil {
		fmt.Printf("Failed to open motor board: %v.\n", err)
		if os.Getenv("IGNORE_MISSING_MOTORS") == "true" {
			fmt.Printf("Using dummy motors\n")
			motors = motor.Dummy()
		} else {
			os.Exit(1)
		}
	}
	defer motors.Close()

	var dev adc.Interface
	dev, err = adc.NewADS1115(cfg.I2CDevice, cfg.ADCAddr)
	if err != nil {
		fmt.Printf("Failed to open ADC: %v.\n", err)
		if os.Getenv("IGNORE_MISSING_ADC") == "true" {
			fmt.Printf("Using dummy ADC\n")
			dev = adc.Dummy()
		} else {
			os.Exit(1)
		}
	}
	defer dev.Close()

	sampler, err := distsensor.NewSampler(dev, cfg.FilterDepth)
	if err != nil {
		fmt.Printf("Failed to prime distance sampler: %v.\n", err)
		os.Exit(1)
	}

	loop := wallfollow.NewLoop(sampler, motors, cfg.NewController())
	tunables := &tunable.Tunables{}
	loop.EnableTuning(tunables, cfg.Control)

	samplerRunner := periodic.New("sampler", cfg.SamplePeriod(), sampler.Sample)
	controlRunner := periodic.New("control", cfg.ControlPeriod(), loop.Tick)

	var sounds chan string
	if cfg.Sounds {
		sounds = sound.Init(cfg.SoundDir)
	}
	play := func(ev string) {
		if sounds != nil {
			select {
			case sounds <- ev:
			default:
			}
		}
	}

	bumpers, err := bumper.New(bumper.DefaultPins, func(pressed uint8) {
		fmt.Printf("Bumper hit: %06b, stopping\n", pressed)
		loop.Halt()
		play(sound.EventHalt)
	})
	if err != nil {
		fmt.Printf("Failed to open bumpers: %v, continuing without\n", err)
	} else {
		defer bumpers.Stop()
	}

	if cfg.Screen {
		go screen.LoopUpdatingScreen(ctx, cfg.ScreenDev, loop)
	}

	samplerRunner.Start(ctx)
	controlRunner.Start(ctx)
	defer samplerRunner.Stop()
	defer controlRunner.Stop()
	play(sound.EventStart)

	loopDetectingFinish(ctx, cfg, loop, play)

	fmt.Println("Shutting down...")
	tunables.Dump()
	fmt.Println("Sampler overruns:", samplerRunner.Overruns(),
		"control overruns:", controlRunner.Overruns())
	_ = motors.Stop()
}

// loopDetectingFinish polls the Pmod colour sensor for the blue marker at
// the end of the course, and prints a status line every half second.  It
// returns when the context is cancelled.
func loopDetectingFinish(ctx context.Context, cfg config.Config, loop *wallfollow.Loop, play func(string)) {
	var (
		sensor *pmodcolor.PmodColor
		cal    pmodcolor.Calibration
	)
	sensor, err := pmodcolor.New(cfg.I2CDevice)
	if err != nil {
		fmt.Printf("Failed to open colour sensor: %v, continuing without\n", err)
		sensor = nil
	} else {
		defer sensor.Close()
		first, err := sensor.ReadRGBC()
		if err != nil {
			fmt.Printf("Colour sensor read failed: %v, continuing without\n", err)
			sensor = nil
		} else {
			cal = pmodcolor.NewCalibration(first)
		}
	}

	colourTicker := time.NewTicker(50 * time.Millisecond)
	defer colourTicker.Stop()
	statusTicker := time.NewTicker(500 * time.Millisecond)
	defer statusTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-colourTicker.C:
			if sensor == nil || loop.Halted() {
				continue
			}
			raw, err := sensor.ReadRGBC()
			if err != nil {
				fmt.Println("Colour sensor read failed:", err)
				continue
			}
			cal.Update(raw)
			n := cal.Normalize(raw)
			if cfg.Blue.Matches(uint32(n.Red)>>8, uint32(n.Green)>>8, uint32(n.Blue)>>8) {
				fmt.Println("Blue marker detected, run complete")
				loop.Halt()
				play(sound.EventFinish)
			}
		case <-statusTicker.C:
			r, state, cmd := loop.Status()
			nl, nc, nr := loop.Noise()
			fmt.Printf("%-8s L=%4dmm C=%4dmm R=%4dmm duty L=%d R=%d noise %d/%d/%d\n",
				state, r.Left, r.Center, r.Right, cmd.Left, cmd.Right, nl, nc, nr)
		}
	}
}
