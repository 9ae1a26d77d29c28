package roadwatch

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/roadwatch/roadwatch/render"
)

// State of the frame loop
type State int

const (
	StateInit State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Command is an interactive control decoded from a key press
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdSnapshot
	CmdReset
)

// DefaultKeyMap returns the stock key bindings: K or Q quits, S saves a
// snapshot, R resets the statistics
func DefaultKeyMap() map[int]Command {
	return map[int]Command{
		'k': CmdQuit, 'K': CmdQuit,
		'q': CmdQuit, 'Q': CmdQuit,
		's': CmdSnapshot, 'S': CmdSnapshot,
		'r': CmdReset, 'R': CmdReset,
	}
}

// pollWait is the bounded wait for an interactive key each iteration
const pollWait = time.Millisecond

// Session processes one video source end to end. It owns the two class
// detectors, the running statistics and the output sink, and once Run is
// called, the source handle. A session is single use, create a new one per
// video.
type Session struct {
	cfg     Config
	id      string
	log     *slog.Logger
	stage   *DetectionStage
	stats   *Statistics
	sink    *Sink
	display Display
	keymap  map[int]Command
	state   State
}

// NewSession validates the configuration and loads both cascade models. A
// missing or invalid cascade file fails here with a ModelLoadError, before
// any frame is read. display may be nil for a headless run.
func NewSession(cfg Config, display Display, logger *slog.Logger) (*Session, error) {

	if logger == nil {
		logger = slog.Default()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cars, err := NewDetector("car", cfg.CarCascade, cfg.Car)

	if err != nil {
		return nil, err
	}

	pedestrians, err := NewDetector("pedestrian", cfg.PedestrianCascade, cfg.Pedestrian)

	if err != nil {
		cars.Close()
		return nil, err
	}

	id := uuid.NewString()

	return &Session{
		cfg:     cfg,
		id:      id,
		log:     logger.With("session", id),
		stage:   NewDetectionStage(cars, pedestrians),
		stats:   NewStatistics(),
		display: display,
		keymap:  DefaultKeyMap(),
		state:   StateInit,
	}, nil
}

// State reports the current frame loop state
func (s *Session) State() State {
	return s.state
}

// Statistics returns the session's running counters
func (s *Session) Statistics() *Statistics {
	return s.stats
}

// Run opens the video source and drives the frame loop until the source is
// exhausted, the user quits, or an unrecoverable error occurs. The source,
// sink and display are released on every exit path, including errors. A
// quit command and end of stream both return nil.
func (s *Session) Run() error {

	src, err := OpenSource(s.cfg.Source)

	if err != nil {
		s.state = StateStopped

		// the loop never starts, so run's teardown will not release
		// the display for us
		if s.display != nil {
			if cerr := s.display.Close(); cerr != nil {
				s.log.Error("closing display", "error", cerr)
			}
		}

		return err
	}

	return s.run(src)
}

// run drives the RUNNING state. The source is owned by this call and is
// closed on return along with the sink and display.
func (s *Session) run(src Source) (err error) {

	s.sink = NewSink(SinkConfig{
		VideoPath:   s.cfg.OutputPath,
		SnapshotDir: s.cfg.SnapshotDir,
		Codec:       s.cfg.Codec,
		FPS:         src.FPS(),
	})

	s.state = StateRunning
	s.log.Info("session started",
		"source", s.cfg.Source,
		"fps", src.FPS(),
		"output", s.cfg.OutputPath)

	defer func() {
		s.state = StateStopped

		if cerr := src.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing source: %w", cerr)
		}

		if cerr := s.sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing sink: %w", cerr)
		}

		if s.display != nil {
			if cerr := s.display.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing display: %w", cerr)
			}
		}

		s.log.Info("session finished",
			"frames", s.stats.Frames(),
			"cars", s.stats.Cars(),
			"pedestrians", s.stats.Pedestrians())
	}()

	frame := gocv.NewMat()
	defer frame.Close()

	for s.state == StateRunning {

		start := time.Now()

		if ok := src.Read(&frame); !ok {
			// end of stream is a normal stop, not an error
			s.log.Debug("end of stream")
			s.state = StateStopping
			break
		}

		if frame.Empty() {
			// still poll so quit works while the source serves
			// nothing but empty frames
			s.handleKey(frame)
			continue
		}

		cars, pedestrians := s.stage.Run(frame)
		s.stats.Record(len(cars), len(pedestrians))

		s.log.Debug("frame processed",
			"frame", s.stats.Frames(),
			"cars", len(cars),
			"pedestrians", len(pedestrians))

		annotated := s.renderFrame(frame, cars, pedestrians)

		if werr := s.sink.Write(annotated); werr != nil {
			annotated.Close()
			s.state = StateStopping
			return werr
		}

		if s.display != nil {
			s.display.Show(annotated)
		}

		s.stats.AddFrameTime(time.Since(start))
		s.handleKey(annotated)
		annotated.Close()
	}

	return nil
}

// renderFrame produces the annotated copy of the frame with boxes for both
// classes and the statistics overlay
func (s *Session) renderFrame(frame gocv.Mat, cars, pedestrians []Box) gocv.Mat {

	stats := render.Stats{
		Frames:      s.stats.Frames(),
		Cars:        s.stats.Cars(),
		Pedestrians: s.stats.Pedestrians(),
		FPS:         s.stats.FPS(),
	}

	return render.Frame(frame, boxRects(cars), boxRects(pedestrians),
		stats, s.cfg.Style)
}

// handleKey polls the display for a key press with a bounded wait and
// applies the mapped command. The annotated frame backs the snapshot
// command.
func (s *Session) handleKey(annotated gocv.Mat) {

	if s.display == nil {
		return
	}

	key := s.display.PollKey(pollWait)

	if key < 0 {
		return
	}

	// strip modifier bits some platforms set on the key code
	switch s.keymap[key&0xff] {

	case CmdQuit:
		s.log.Info("quit requested")
		s.state = StateStopping

	case CmdSnapshot:
		// nothing rendered to save yet
		if annotated.Empty() {
			return
		}

		path, err := s.sink.Snapshot(annotated, s.stats.Frames())

		if err != nil {
			s.log.Error("snapshot failed", "error", err)
			return
		}

		s.log.Info("snapshot saved", "path", path)

	case CmdReset:
		s.stats.Reset()
		s.log.Info("statistics reset")
	}
}

// Close releases the detectors. Call it after Run has returned.
func (s *Session) Close() error {
	return s.stage.Close()
}

// boxRects converts detection boxes to rectangles for the renderer
func boxRects(boxes []Box) []image.Rectangle {

	rects := make([]image.Rectangle, len(boxes))

	for i, b := range boxes {
		rects[i] = b.Rect()
	}

	return rects
}
