package render

import (
	"image"

	"gocv.io/x/gocv"
)

// shadowOffset is the pixel offset of the contrast shadow rectangle
const shadowOffset = 1

// Boxes renders the bounding boxes for one object class: a shadow rectangle
// offset behind each box, the box itself in the class color, and the class
// label above it
func Boxes(img *gocv.Mat, boxes []image.Rectangle, class ClassStyle,
	font Font, lineThickness int) {

	for _, box := range boxes {

		// shadow first so the main rectangle draws over it
		shadow := box.Add(image.Pt(shadowOffset, shadowOffset))
		gocv.Rectangle(img, shadow, class.Shadow, lineThickness)

		// draw rectangle around detected object
		gocv.Rectangle(img, box, class.Color, lineThickness)

		// class label above the box
		labelPos := image.Pt(box.Min.X, box.Min.Y-font.BottomPad)
		gocv.PutTextWithParams(img, class.Label, labelPos,
			font.Face, font.Scale, class.Color, font.Thickness,
			font.LineType, false)
	}
}
