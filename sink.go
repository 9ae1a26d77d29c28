package roadwatch

import (
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

// SinkConfig configures an output sink
type SinkConfig struct {
	// VideoPath enables recording of the annotated stream when set
	VideoPath string
	// SnapshotDir is the directory snapshot stills are written to
	SnapshotDir string
	// Codec is the fourcc code for the video container
	Codec string
	// FPS is the frame rate of the recorded video
	FPS float64
}

// Sink persists annotated frames: an optional video recording plus on
// demand snapshot stills. Snapshots work whether or not video recording is
// enabled.
type Sink struct {
	cfg    SinkConfig
	writer *gocv.VideoWriter
	width  int
	height int
	// seq numbers snapshots so filenames never collide within a session
	seq int
}

// NewSink returns a sink for the given configuration. Zero values fall back
// to mp4v at 30 FPS with snapshots in the working directory.
func NewSink(cfg SinkConfig) *Sink {

	if cfg.Codec == "" {
		cfg.Codec = "mp4v"
	}

	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}

	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = "."
	}

	return &Sink{cfg: cfg}
}

// Write appends the frame to the output video. Without a configured video
// path it is a no-op. The writer opens on the first frame, which fixes the
// recording dimensions, a later frame of a different size is an
// EncodingError.
func (s *Sink) Write(frame gocv.Mat) error {

	if s.cfg.VideoPath == "" {
		return nil
	}

	if s.writer == nil {

		w, err := gocv.VideoWriterFile(s.cfg.VideoPath, s.cfg.Codec,
			s.cfg.FPS, frame.Cols(), frame.Rows(), true)

		if err != nil {
			return &EncodingError{Path: s.cfg.VideoPath, Err: err}
		}

		if !w.IsOpened() {
			w.Close()
			return &EncodingError{Path: s.cfg.VideoPath,
				Msg: fmt.Sprintf("%s writer could not be opened", s.cfg.Codec)}
		}

		s.writer = w
		s.width = frame.Cols()
		s.height = frame.Rows()
	}

	if frame.Cols() != s.width || frame.Rows() != s.height {
		return &EncodingError{Path: s.cfg.VideoPath,
			Msg: fmt.Sprintf("frame size %dx%d does not match recording size %dx%d",
				frame.Cols(), frame.Rows(), s.width, s.height)}
	}

	if err := s.writer.Write(frame); err != nil {
		return &EncodingError{Path: s.cfg.VideoPath, Err: err}
	}

	return nil
}

// Snapshot writes the frame as a still image and returns its path. The
// filename carries a monotonic sequence number plus the frame number, so
// repeated snapshots in one session never overwrite each other.
func (s *Sink) Snapshot(frame gocv.Mat, frameNum int) (string, error) {

	if err := os.MkdirAll(s.cfg.SnapshotDir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	s.seq++
	name := filepath.Join(s.cfg.SnapshotDir,
		fmt.Sprintf("snapshot_%04d_frame_%d.jpg", s.seq, frameNum))

	if ok := gocv.IMWrite(name, frame); !ok {
		return "", fmt.Errorf("writing snapshot %s failed", name)
	}

	return name, nil
}

// Close flushes and releases the video writer. Safe to call more than once.
func (s *Sink) Close() error {

	if s.writer == nil {
		return nil
	}

	err := s.writer.Close()
	s.writer = nil

	return err
}
