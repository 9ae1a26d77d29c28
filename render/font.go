package render

import (
	"gocv.io/x/gocv"
)

// Font defines the parameters for rendering text on an image using GoCV.
// Text color comes from the class or overlay style being drawn.
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Thickness int
	LineType  gocv.LineType
	// BottomPad is the gap between a box label and the top edge of its box
	BottomPad int
}

// DefaultFont returns default font settings
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.6,
		Thickness: 2,
		LineType:  gocv.LineAA,
		BottomPad: 10,
	}
}
