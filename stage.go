package roadwatch

import (
	"sync"

	"gocv.io/x/gocv"
)

// DetectionStage runs the car and pedestrian detectors over a single frame
type DetectionStage struct {
	cars        *Detector
	pedestrians *Detector
}

// NewDetectionStage returns a stage composed of the two class detectors
func NewDetectionStage(cars, pedestrians *Detector) *DetectionStage {
	return &DetectionStage{
		cars:        cars,
		pedestrians: pedestrians,
	}
}

// Run detects both classes in the frame. The two detectors share no mutable
// state and only read the frame, so the pedestrian search runs on its own
// goroutine and is joined before returning.
func (s *DetectionStage) Run(frame gocv.Mat) (cars, pedestrians []Box) {

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		pedestrians = s.pedestrians.Detect(frame)
	}()

	cars = s.cars.Detect(frame)
	wg.Wait()

	return cars, pedestrians
}

// Close releases both detectors
func (s *DetectionStage) Close() error {

	err := s.cars.Close()

	if perr := s.pedestrians.Close(); perr != nil && err == nil {
		err = perr
	}

	return err
}
