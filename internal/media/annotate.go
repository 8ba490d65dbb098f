package media

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/pr3ssf/elephant-detector/internal/domain"
)

// boxColor is the fixed annotation color (#FF5722).
var boxColor = color.RGBA{R: 255, G: 87, B: 34, A: 255}

const boxThickness = 2

// Annotate draws one rectangle and one confidence label per detection onto
// the frame. The detection list itself is never modified.
func Annotate(frame *image.RGBA, detections []domain.Detection) {
	for _, det := range detections {
		x1, x2 := ordered(det.X1, det.X2)
		y1, y2 := ordered(det.Y1, det.Y2)

		drawRect(frame, x1, y1, x2, y2)
		drawLabel(frame, fmt.Sprintf("%.2f", det.Confidence), x1, y1-5)
	}
}

// drawRect draws a rectangle outline of boxThickness pixels, clipped to the
// frame bounds.
func drawRect(frame *image.RGBA, x1, y1, x2, y2 int) {
	for t := 0; t < boxThickness; t++ {
		for x := x1; x <= x2; x++ {
			setPixel(frame, x, y1+t)
			setPixel(frame, x, y2-t)
		}
		for y := y1; y <= y2; y++ {
			setPixel(frame, x1+t, y)
			setPixel(frame, x2-t, y)
		}
	}
}

func drawLabel(frame *image.RGBA, text string, x, y int) {
	drawer := &font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(boxColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

func setPixel(frame *image.RGBA, x, y int) {
	if image.Pt(x, y).In(frame.Bounds()) {
		frame.SetRGBA(x, y, boxColor)
	}
}

func ordered(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
