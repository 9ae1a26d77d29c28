package roadwatch

import (
	"strconv"

	"gocv.io/x/gocv"
)

// DefaultFPS is assumed when the capture backend does not report a frame
// rate, which is common for live cameras
const DefaultFPS = 30

// Source supplies frames to the pipeline. Read places the next frame into
// dst and reports false at end of stream. Implementations are not safe for
// concurrent use, the frame loop is the only caller.
type Source interface {
	Read(dst *gocv.Mat) bool
	// FPS reports the source frame rate
	FPS() float64
	Close() error
}

// capture is a Source backed by a gocv VideoCapture
type capture struct {
	cap *gocv.VideoCapture
}

// OpenSource opens the identified video source. An identifier consisting
// only of digits is treated as a camera device index, anything else as a
// file path. Failure to open returns a SourceOpenError naming the
// identifier.
func OpenSource(id string) (Source, error) {

	var (
		cap *gocv.VideoCapture
		err error
	)

	if idx, convErr := strconv.Atoi(id); convErr == nil {
		cap, err = gocv.VideoCaptureDevice(idx)
	} else {
		cap, err = gocv.VideoCaptureFile(id)
	}

	if err != nil {
		return nil, &SourceOpenError{Source: id, Err: err}
	}

	if !cap.IsOpened() {
		cap.Close()
		return nil, &SourceOpenError{Source: id}
	}

	return &capture{cap: cap}, nil
}

func (c *capture) Read(dst *gocv.Mat) bool {
	return c.cap.Read(dst)
}

func (c *capture) FPS() float64 {

	fps := c.cap.Get(gocv.VideoCaptureFPS)

	if fps <= 0 {
		return DefaultFPS
	}

	return fps
}

func (c *capture) Close() error {
	return c.cap.Close()
}
