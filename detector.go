package roadwatch

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
)

// Box is a single detection in pixel coordinates of the source frame. Boxes
// hold no identity, two boxes in consecutive frames are never the same
// object.
type Box struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Rect returns the box as an image.Rectangle for drawing
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// DetectionParameters configure the multi-scale sliding window search for
// one object class
type DetectionParameters struct {
	// ScaleFactor is the step between successive search scales. It must be
	// greater than 1.0 or the scale pyramid never shrinks.
	ScaleFactor float64 `toml:"scale_factor"`
	// MinNeighbors is the number of overlapping raw matches that must agree
	// before a detection is reported
	MinNeighbors int `toml:"min_neighbors"`
	// MinWidth and MinHeight give the smallest object size reported, in
	// pixels
	MinWidth  int `toml:"min_width"`
	MinHeight int `toml:"min_height"`
}

// Validate checks the parameters are usable for a cascade search
func (p DetectionParameters) Validate() error {

	if p.ScaleFactor <= 1.0 {
		return fmt.Errorf("scale factor must be greater than 1.0, got %v",
			p.ScaleFactor)
	}

	if p.MinNeighbors < 0 {
		return fmt.Errorf("min neighbors must not be negative, got %d",
			p.MinNeighbors)
	}

	if p.MinWidth <= 0 || p.MinHeight <= 0 {
		return fmt.Errorf("min size must be positive, got %dx%d",
			p.MinWidth, p.MinHeight)
	}

	return nil
}

// CarParams returns the default detection parameters for the car class
func CarParams() DetectionParameters {
	return DetectionParameters{
		ScaleFactor:  1.1,
		MinNeighbors: 3,
		MinWidth:     30,
		MinHeight:    30,
	}
}

// PedestrianParams returns the default detection parameters for the
// pedestrian class
func PedestrianParams() DetectionParameters {
	return DetectionParameters{
		ScaleFactor:  1.1,
		MinNeighbors: 5,
		MinWidth:     40,
		MinHeight:    80,
	}
}

// Detector wraps a pretrained Haar cascade classifier for a single object
// class. The cascade definition is loaded once at construction, per frame
// detection calls do not fail.
type Detector struct {
	class   string
	cascade gocv.CascadeClassifier
	params  DetectionParameters
}

// NewDetector loads the cascade definition file and returns a detector for
// the given class. A missing file or a cascade that loads empty returns a
// ModelLoadError.
func NewDetector(class, modelFile string, params DetectionParameters) (*Detector, error) {

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%s detection parameters: %w", class, err)
	}

	if _, err := os.Stat(modelFile); err != nil {
		return nil, &ModelLoadError{Class: class, Path: modelFile, Err: err}
	}

	cascade := gocv.NewCascadeClassifier()

	if ok := cascade.Load(modelFile); !ok {
		cascade.Close()
		return nil, &ModelLoadError{Class: class, Path: modelFile}
	}

	return &Detector{
		class:   class,
		cascade: cascade,
		params:  params,
	}, nil
}

// Detect runs the multi-scale sliding window search over the frame and
// returns the boxes that pass the minimum neighbors agreement and minimum
// size floor. Every returned box lies wholly within the frame bounds. Result
// order is unspecified. A frame with no matches returns an empty slice.
func (d *Detector) Detect(frame gocv.Mat) []Box {

	// the cascade operates on luminance, not color
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	rects := d.cascade.DetectMultiScaleWithParams(gray, d.params.ScaleFactor,
		d.params.MinNeighbors, 0,
		image.Pt(d.params.MinWidth, d.params.MinHeight), image.Pt(0, 0))

	bounds := image.Rect(0, 0, frame.Cols(), frame.Rows())
	boxes := make([]Box, 0, len(rects))

	for _, r := range rects {

		// clamp to the frame then drop anything the clamp shrank below
		// the size floor
		r = r.Intersect(bounds)

		if r.Dx() < d.params.MinWidth || r.Dy() < d.params.MinHeight {
			continue
		}

		boxes = append(boxes, Box{
			X:      r.Min.X,
			Y:      r.Min.Y,
			Width:  r.Dx(),
			Height: r.Dy(),
		})
	}

	return boxes
}

// Class returns the object class this detector was built for
func (d *Detector) Class() string {
	return d.class
}

// Close releases the cascade classifier
func (d *Detector) Close() error {
	return d.cascade.Close()
}
