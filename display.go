package roadwatch

import (
	"time"

	"gocv.io/x/gocv"
)

// Display is the surface annotated frames are shown on. PollKey waits up to
// the given duration for a key press and returns its code, or a negative
// value when no key arrived in time. The poll is the frame loop's only
// scheduling tick, it must never block indefinitely.
type Display interface {
	Show(frame gocv.Mat)
	PollKey(wait time.Duration) int
	Close() error
}

// Window is a Display backed by a gocv highgui window
type Window struct {
	win *gocv.Window
}

// NewWindow opens a named display window
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

func (w *Window) Show(frame gocv.Mat) {
	w.win.IMShow(frame)
}

func (w *Window) PollKey(wait time.Duration) int {

	ms := int(wait.Milliseconds())

	// WaitKey(0) blocks forever, keep the poll bounded
	if ms < 1 {
		ms = 1
	}

	return w.win.WaitKey(ms)
}

func (w *Window) Close() error {
	return w.win.Close()
}
