package main

import (
	"fmt"
	"os"
	"time"

	"gocv.io/x/gocv"

	"github.com/mazebot-team/mazebot/go-controller/pkg/vision"
)

func main() {
	filename := os.Args[1]
	if filename == "camera" {
		loopReadingCamera()
	} else {
		analyzeFile(filename)
	}
}

func loopReadingCamera() {
	webcam, err := gocv.VideoCaptureDevice(0)
	if err != nil {
		fmt.Printf("error opening video capture device: %v\n", 0)
		return
	}
	defer webcam.Close()

	img := gocv.NewMat()
	defer img.Close()

	for {
		// This blocks until the next frame is ready.
		if ok := webcam.Read(&img); !ok {
			fmt.Printf("cannot read device\n")
			return
		}
		if img.Empty() {
			fmt.Printf("no image on device\n")
			time.Sleep(1 * time.Millisecond)
			continue
		}

		hsv := vision.ScaleAndConvertToHSV(img, 600)
		if pos, err := vision.FindMarker(hsv, vision.Markers["blue"]); err == nil {
			fmt.Printf("Found at %#v\n", pos)
		} else {
			fmt.Printf("Not found: %v\n", err)
		}
		hsv.Close()
	}
}

func analyzeFile(filename string) {
	img := gocv.IMRead(filename, gocv.IMReadColor)
	defer img.Close()

	hsv := vision.ScaleAndConvertToHSV(img, 600)
	defer hsv.Close()

	for colour, hsvRange := range vision.Markers {
		fmt.Printf("Looking for %v marker...\n", colour)
		if pos, err := vision.FindMarker(hsv, hsvRange); err == nil {
			fmt.Printf("Found at %#v\n", pos)
		} else {
			fmt.Printf("Not found: %v\n", err)
		}
	}
}
