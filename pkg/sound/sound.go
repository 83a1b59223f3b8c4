// Package sound plays short wav jingles for robot events over the default
// speaker.  Playback runs on its own goroutine so callers never block on
// audio; sending a new event cuts off whatever is still playing.
package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Event names map to wav files under the configured sounds directory.
const (
	EventStart    = "start"
	EventHalt     = "halt"
	EventFinish   = "finish"
	EventLowPower = "lowpower"
)

// Init opens the speaker and returns a channel of event names to play.
// If the speaker cannot be opened (no audio hardware on the bench), events
// are drained and logged so the rest of the robot keeps running.
func Init(soundsDir string) chan string {
	events := make(chan string)
	go func() {
		defer func() {
			recover()
			for ev := range events {
				fmt.Println("Unable to play", ev)
			}
		}()
		sampleRate := beep.SampleRate(44100)
		err := speaker.Init(sampleRate, sampleRate.N(time.Second/5))
		if err != nil {
			fmt.Println("Failed to open speaker", err)
			for ev := range events {
				fmt.Println("Unable to play", ev)
			}
		}
		var ctrl *beep.Ctrl
		var s beep.StreamSeekCloser
		for ev := range events {
			if ctrl != nil {
				speaker.Lock()
				ctrl.Paused = true
				ctrl.Streamer = nil
				speaker.Unlock()
				ctrl = nil
			}
			if s != nil {
				s.Close()
			}

			f, err := os.Open(filepath.Join(soundsDir, ev+".wav"))
			if err != nil {
				fmt.Println("Failed to open sound", err)
				continue
			}
			s, _, err = wav.Decode(f)
			if err != nil {
				fmt.Println("Failed to decode sound", err)
				continue
			}
			ctrl = &beep.Ctrl{Streamer: s}
			speaker.Play(ctrl)
		}
	}()
	return events
}
