// Package screen renders a status display on the robot's 128x128 SPI TFT,
// exposed by the kernel as an RGB565 framebuffer device.  It shows the
// three wall distances, the controller state and the current duty cycles.
package screen

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fogleman/gg"

	"github.com/mazebot-team/mazebot/go-controller/pkg/distsensor"
	"github.com/mazebot-team/mazebot/go-controller/pkg/motor"
	"github.com/mazebot-team/mazebot/go-controller/pkg/wallfollow"
)

// StatusSource is anything that can report the latest control-loop status.
// *wallfollow.Loop satisfies it.
type StatusSource interface {
	Status() (distsensor.Readings, wallfollow.State, motor.Command)
	Halted() bool
}

// LoopUpdatingScreen redraws the display twice a second until the context
// is cancelled, then blanks it.  A missing framebuffer device is not an
// error; the robot just runs headless.
func LoopUpdatingScreen(ctx context.Context, device string, src StatusSource) {
	f, err := os.OpenFile(device, os.O_RDWR, 0666)
	if err != nil {
		fmt.Println("Failed to open screen, ignoring")
		return
	}

	for range time.NewTicker(500 * time.Millisecond).C {
		if ctx.Err() != nil {
			var buf [128 * 128 * 2]byte
			_, _ = f.Seek(0, 0)
			_, _ = f.Write(buf[:])
			return
		}
		const S = 128
		dc := gg.NewContext(S, S)
		dc.SetRGBA(1, 0.9, 0, 1)

		r, state, cmd := src.Status()

		dc.DrawString("WALLS mm", 4, 12)
		drawDistanceBar(dc, "L", r.Left, 26)
		drawDistanceBar(dc, "C", r.Center, 40)
		drawDistanceBar(dc, "R", r.Right, 54)

		dc.DrawString(state.String(), 4, 76)
		dc.DrawString(fmt.Sprintf("L%5d R%5d", cmd.Left, cmd.Right), 4, 92)

		if src.Halted() {
			dc.Push()
			dc.Translate(104, 108)
			drawWarning(dc)
			dc.Pop()
			dc.SetRGBA(1, 0.9, 0, 1)
		}

		var buf [128 * 128 * 2]byte
		for y := 0; y < S; y++ {
			for x := 0; x < S; x++ {
				c := dc.Image().At(x, y)
				r, g, b, _ := c.RGBA() // 16-bit pre-multiplied

				rb := byte(r >> (16 - 5))
				gb := byte(g >> (16 - 6)) // Green has 6 bits
				bb := byte(b >> (16 - 5))

				buf[(127-y)*2+(x)*128*2+1] = (rb << 3) | (gb >> 3)
				buf[(127-y)*2+(x)*128*2] = bb | (gb << 5)
			}
		}
		_, err = f.Seek(0, 0)
		if err != nil {
			fmt.Println("Screen failure: ", err)
			return
		}

		for i := 0; i < 128; i++ {
			_, err = f.Write(buf[i*256 : i*256+256])
			if err != nil {
				fmt.Println("Screen failure: ", err)
				return
			}
			time.Sleep(10 * time.Microsecond)
		}
	}
}

// drawDistanceBar draws one labelled horizontal bar, full scale at the
// far-object sentinel distance.  Bars go red inside 200 mm.
func drawDistanceBar(dc *gg.Context, label string, mm int32, y float64) {
	dc.DrawString(label, 4, y+8)
	if mm < 200 {
		dc.SetRGBA(1, 0.2, 0, 1)
	}
	w := float64(mm) / float64(distsensor.FarSentinel) * 100
	if w > 100 {
		w = 100
	}
	dc.DrawRectangle(16, y, w, 8)
	dc.Fill()
	dc.SetRGBA(1, 0.9, 0, 1)
	dc.DrawString(fmt.Sprintf("%d", mm), 80, y+8)
}

func drawWarning(dc *gg.Context) {
	dc.SetRGB(1, 0.2, 0)
	dc.DrawRegularPolygon(3, 0, 0, 14, 0)
	dc.Fill()
	dc.SetRGBA(0, 0, 0, 0.9)
	dc.DrawString("!", -3, 3)
}
