package render

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Stats is the statistics snapshot shown on the overlay panel
type Stats struct {
	Frames      int
	Cars        int
	Pedestrians int
	FPS         float64
}

// panel geometry, anchored in the top left corner so detections in the
// middle of the scene are not obscured
var panelRect = image.Rect(10, 10, 250, 170)

const (
	textLeft = 20
	textTop  = 30
	lineStep = 20

	// overlay text is smaller than box labels
	overlayTextScale     = 0.5
	overlayTextThickness = 1
)

// Overlay draws a semi-opaque statistics panel onto the image: frame count,
// cumulative detection counts per class, the FPS estimate, and the key
// bindings
func Overlay(img *gocv.Mat, stats Stats, style Style) {

	// darken the panel area on a copy then blend it back over the image
	panel := img.Clone()
	defer panel.Close()

	gocv.Rectangle(&panel, panelRect, style.Overlay.Background, -1)
	gocv.AddWeighted(panel, style.Overlay.Alpha, *img, 1-style.Overlay.Alpha,
		0, img)

	lines := []string{
		fmt.Sprintf("Frame: %d", stats.Frames),
		fmt.Sprintf("Cars: %d", stats.Cars),
		fmt.Sprintf("Pedestrians: %d", stats.Pedestrians),
		fmt.Sprintf("FPS: %.1f", stats.FPS),
		"",
		"K/Q quit  S snapshot  R reset",
	}

	y := textTop

	for _, line := range lines {

		if line != "" {
			gocv.PutTextWithParams(img, line, image.Pt(textLeft, y),
				style.Font.Face, overlayTextScale, style.Overlay.Text,
				overlayTextThickness, style.Font.LineType, false)
		}

		y += lineStep
	}
}

// Frame produces the annotated copy of img with the detection boxes for
// both classes and the statistics overlay. The input Mat is never written,
// the caller owns the returned Mat and must Close it.
func Frame(img gocv.Mat, cars, pedestrians []image.Rectangle, stats Stats,
	style Style) gocv.Mat {

	out := img.Clone()

	Boxes(&out, cars, style.Car, style.Font, style.LineThickness)
	Boxes(&out, pedestrians, style.Pedestrian, style.Font, style.LineThickness)
	Overlay(&out, stats, style)

	return out
}
