package roadwatch

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// frameTimeWindow is the number of recent frame durations the FPS estimate
// averages over
const frameTimeWindow = 30

// Statistics holds the running counters for a pipeline session: frames
// processed and cumulative detections per class since start or the last
// reset. It also keeps a bounded window of recent frame processing times
// for the FPS readout. Not safe for concurrent use, the frame loop is the
// only writer.
type Statistics struct {
	frames      int
	cars        int
	pedestrians int
	// recent frame processing times in seconds
	frameTimes []float64
}

// NewStatistics returns zeroed statistics
func NewStatistics() *Statistics {
	return &Statistics{
		frameTimes: make([]float64, 0, frameTimeWindow),
	}
}

// Record accounts for one processed frame and its detection counts. It is
// called exactly once per frame.
func (s *Statistics) Record(cars, pedestrians int) {
	s.frames++
	s.cars += cars
	s.pedestrians += pedestrians
}

// Reset zeroes the frame and detection counters. The frame time window is
// kept so the FPS readout does not blank out on reset.
func (s *Statistics) Reset() {
	s.frames = 0
	s.cars = 0
	s.pedestrians = 0
}

// AddFrameTime records how long one frame took to process
func (s *Statistics) AddFrameTime(d time.Duration) {

	s.frameTimes = append(s.frameTimes, d.Seconds())

	if len(s.frameTimes) > frameTimeWindow {
		s.frameTimes = s.frameTimes[1:]
	}
}

// FPS returns the frame rate estimated over the recent frame time window,
// or zero before any frame has been timed
func (s *Statistics) FPS() float64 {

	if len(s.frameTimes) == 0 {
		return 0
	}

	mean := stat.Mean(s.frameTimes, nil)

	if mean <= 0 {
		return 0
	}

	return 1.0 / mean
}

// Frames returns the number of frames processed since start or reset
func (s *Statistics) Frames() int {
	return s.frames
}

// Cars returns the cumulative car detection count
func (s *Statistics) Cars() int {
	return s.cars
}

// Pedestrians returns the cumulative pedestrian detection count
func (s *Statistics) Pedestrians() int {
	return s.pedestrians
}
