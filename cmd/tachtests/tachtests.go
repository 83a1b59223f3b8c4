package main

import (
	"fmt"
	"time"

	"github.com/mazebot-team/mazebot/go-controller/pkg/tachometer"
)

func main() {
	tach, err := tachometer.New("GPIO20", "GPIO21", "GPIO26", "GPIO19")
	if err != nil {
		fmt.Println("Failed to open tachometer", err)
		return
	}
	defer tach.Stop()

	for range time.NewTicker(500 * time.Millisecond).C {
		li, ld, ls := tach.Left.Snapshot()
		ri, rd, rs := tach.Right.Snapshot()
		fmt.Printf("L: %8s steps=%6d interval=%v  R: %8s steps=%6d interval=%v\n",
			ld, ls, li, rd, rs, ri)
	}
}
