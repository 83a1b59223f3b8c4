// Package vision finds the coloured end-of-course marker in camera frames.
// It is the camera-based alternative to the Pmod colour sensor: an HSV
// in-range mask, noise erosion, then the largest contour wins.
package vision

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// HSVRange is an inclusive HSV acceptance window.  HueMax < HueMin means
// the window wraps around the hue circle (red does this).
type HSVRange struct {
	HueMin, HueMax byte
	SatMin, SatMax byte
	ValMin, ValMax byte
}

// Markers holds the tuned windows for the course marker colours.
var Markers = map[string]*HSVRange{
	"blue": {100, 120, 90, 255, 80, 255},
	"red":  {165, 10, 100, 255, 60, 255},
}

// Marker is a detected marker: centre position and approximate radius in
// scaled-frame pixels.
type Marker struct {
	X      int
	Y      int
	Radius int
}

// minMarkerSide rejects contours too small to be the marker rather than
// noise that survived erosion.
const minMarkerSide = 18

// ScaleAndConvertToHSV downsizes a BGR frame to the working width and
// converts it to HSV.  The caller owns the returned Mat.
func ScaleAndConvertToHSV(img gocv.Mat, desiredWidth int) (hsv gocv.Mat) {
	scaleFactor := float64(desiredWidth) / float64(img.Cols())
	scaled := gocv.NewMat()
	gocv.Resize(img, &scaled, image.Point{}, scaleFactor, scaleFactor, gocv.InterpolationLinear)
	defer scaled.Close()

	hsv = gocv.NewMat()
	gocv.CvtColor(scaled, &hsv, gocv.ColorBGRToHSV)
	return
}

func maskNoWrap(hsv gocv.Mat, r *HSVRange) gocv.Mat {
	lb, _ := gocv.NewMatFromBytes(1, 3, gocv.MatTypeCV8U, []byte{r.HueMin, r.SatMin, r.ValMin})
	defer lb.Close()
	ub, _ := gocv.NewMatFromBytes(1, 3, gocv.MatTypeCV8U, []byte{r.HueMax, r.SatMax, r.ValMax})
	defer ub.Close()
	mask := gocv.NewMatWithSize(hsv.Rows(), hsv.Cols(), gocv.MatTypeCV8U)
	gocv.InRange(hsv, lb, ub, &mask)
	return mask
}

func mask(hsv gocv.Mat, r *HSVRange) gocv.Mat {
	if r.HueMax > r.HueMin {
		return maskNoWrap(hsv, r)
	}
	// Hue window wraps: mask both halves and OR them.
	r1 := *r
	r1.HueMax = 180
	m1 := maskNoWrap(hsv, &r1)
	defer m1.Close()
	r2 := *r
	r2.HueMin = 0
	m2 := maskNoWrap(hsv, &r2)
	defer m2.Close()
	out := gocv.NewMatWithSize(hsv.Rows(), hsv.Cols(), gocv.MatTypeCV8U)
	gocv.BitwiseOr(m1, m2, &out)
	return out
}

// FindMarker locates the largest blob of the given colour in an HSV frame.
func FindMarker(hsv gocv.Mat, r *HSVRange) (Marker, error) {
	m := mask(hsv, r)
	defer m.Close()

	// Two rounds each of erosion and dilation to knock out speckle.
	nullMat := gocv.NewMat()
	defer nullMat.Close()
	gocv.Erode(m, &m, nullMat)
	gocv.Erode(m, &m, nullMat)
	gocv.Dilate(m, &m, nullMat)
	gocv.Dilate(m, &m, nullMat)

	contours := gocv.FindContours(m, gocv.RetrievalExternal, gocv.ChainApproxSimple).ToPoints()
	if len(contours) == 0 {
		return Marker{}, errors.New("no contours")
	}

	var largest []image.Point
	maxArea := 0.0
	for _, c := range contours {
		area := gocv.ContourArea(gocv.NewPointVectorFromPoints(c))
		if area > maxArea {
			maxArea = area
			largest = c
		}
	}

	rect := gocv.BoundingRect(gocv.NewPointVectorFromPoints(largest))
	w := rect.Max.X - rect.Min.X
	h := rect.Max.Y - rect.Min.Y
	if w <= minMarkerSide || h <= minMarkerSide {
		return Marker{}, errors.New("largest contour too small")
	}
	return Marker{
		X:      (rect.Max.X + rect.Min.X) / 2,
		Y:      (rect.Max.Y + rect.Min.Y) / 2,
		Radius: (w + h) / 4,
	}, nil
}
