package roadwatch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/roadwatch/roadwatch/render"
)

// fakeSource serves a fixed number of black frames
type fakeSource struct {
	frames int
	served int
	closed int
}

func (f *fakeSource) Read(dst *gocv.Mat) bool {

	if f.served >= f.frames {
		return false
	}

	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()
	frame.CopyTo(dst)

	f.served++
	return true
}

func (f *fakeSource) FPS() float64 {
	return 30
}

func (f *fakeSource) Close() error {
	f.closed++
	return nil
}

// sizedSource serves one black frame per listed size, as rows by cols
type sizedSource struct {
	sizes  [][2]int
	served int
	closed int
}

func (s *sizedSource) Read(dst *gocv.Mat) bool {

	if s.served >= len(s.sizes) {
		return false
	}

	frame := gocv.NewMatWithSize(s.sizes[s.served][0], s.sizes[s.served][1],
		gocv.MatTypeCV8UC3)
	defer frame.Close()
	frame.CopyTo(dst)

	s.served++
	return true
}

func (s *sizedSource) FPS() float64 {
	return 30
}

func (s *sizedSource) Close() error {
	s.closed++
	return nil
}

// emptyFrameSource reads successfully forever but never fills the frame
type emptyFrameSource struct {
	reads  int
	closed int
}

func (e *emptyFrameSource) Read(*gocv.Mat) bool {
	e.reads++
	return true
}

func (e *emptyFrameSource) FPS() float64 {
	return 30
}

func (e *emptyFrameSource) Close() error {
	e.closed++
	return nil
}

// fakeDisplay replays a scripted key per polled frame, negative meaning no
// key pressed
type fakeDisplay struct {
	keys   []int
	polled int
	shown  int
	closed int
}

func (d *fakeDisplay) Show(gocv.Mat) {
	d.shown++
}

func (d *fakeDisplay) PollKey(time.Duration) int {

	d.polled++

	if len(d.keys) == 0 {
		return -1
	}

	key := d.keys[0]
	d.keys = d.keys[1:]
	return key
}

func (d *fakeDisplay) Close() error {
	d.closed++
	return nil
}

func newTestSession(t *testing.T, cfg Config, display Display) *Session {
	t.Helper()

	cascade := writeCascade(t)
	cfg.CarCascade = cascade
	cfg.PedestrianCascade = cascade

	if cfg.Source == "" {
		cfg.Source = "unused"
	}

	if cfg.Car.ScaleFactor == 0 {
		cfg.Car = CarParams()
	}

	if cfg.Pedestrian.ScaleFactor == 0 {
		cfg.Pedestrian = PedestrianParams()
	}

	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = t.TempDir()
	}

	if cfg.Style.Overlay.Alpha == 0 {
		cfg.Style = render.DefaultStyle()
	}

	session, err := NewSession(cfg, display, nil)

	if err != nil {
		t.Fatalf("creating session: %v", err)
	}

	t.Cleanup(func() { session.Close() })
	return session
}

// TestSessionEndOfStream runs three black frames to exhaustion: statistics
// end at (3, 0, 0), the state machine reaches stopped, and source and
// display are each released exactly once
func TestSessionEndOfStream(t *testing.T) {

	src := &fakeSource{frames: 3}
	display := &fakeDisplay{}
	session := newTestSession(t, Config{}, display)

	if session.State() != StateInit {
		t.Fatalf("state before run = %v, want %v", session.State(), StateInit)
	}

	if err := session.run(src); err != nil {
		t.Fatalf("run: %v", err)
	}

	if session.State() != StateStopped {
		t.Errorf("state after run = %v, want %v", session.State(), StateStopped)
	}

	stats := session.Statistics()

	if stats.Frames() != 3 || stats.Cars() != 0 || stats.Pedestrians() != 0 {
		t.Errorf("statistics = (%d, %d, %d), want (3, 0, 0)",
			stats.Frames(), stats.Cars(), stats.Pedestrians())
	}

	if src.closed != 1 {
		t.Errorf("source closed %d times, want 1", src.closed)
	}

	if display.closed != 1 {
		t.Errorf("display closed %d times, want 1", display.closed)
	}

	if display.shown != 3 {
		t.Errorf("displayed %d frames, want 3", display.shown)
	}
}

// TestSessionQuitKey verifies the quit command stops the loop after the
// frame it arrived on
func TestSessionQuitKey(t *testing.T) {

	src := &fakeSource{frames: 10}
	display := &fakeDisplay{keys: []int{-1, 'q'}}
	session := newTestSession(t, Config{}, display)

	if err := session.run(src); err != nil {
		t.Fatalf("run: %v", err)
	}

	if session.Statistics().Frames() != 2 {
		t.Errorf("processed %d frames before quit, want 2", session.Statistics().Frames())
	}

	if session.State() != StateStopped {
		t.Errorf("state after quit = %v, want %v", session.State(), StateStopped)
	}

	if src.closed != 1 {
		t.Errorf("source closed %d times, want 1", src.closed)
	}
}

// TestSessionResetKey issues a statistics reset mid stream: counters zero
// and the next frame counts from one again
func TestSessionResetKey(t *testing.T) {

	src := &fakeSource{frames: 6}
	display := &fakeDisplay{keys: []int{-1, -1, -1, -1, 'r', 'q'}}
	session := newTestSession(t, Config{}, display)

	if err := session.run(src); err != nil {
		t.Fatalf("run: %v", err)
	}

	// five frames recorded, reset on the fifth, one more before quit
	if session.Statistics().Frames() != 1 {
		t.Errorf("frames after reset + one frame = %d, want 1",
			session.Statistics().Frames())
	}
}

// TestSessionSnapshotKey saves two snapshots during one run and verifies
// two distinct image files exist afterwards
func TestSessionSnapshotKey(t *testing.T) {

	dir := t.TempDir()
	src := &fakeSource{frames: 3}
	display := &fakeDisplay{keys: []int{'s', 's'}}
	session := newTestSession(t, Config{SnapshotDir: dir}, display)

	if err := session.run(src); err != nil {
		t.Fatalf("run: %v", err)
	}

	entries, err := os.ReadDir(dir)

	if err != nil {
		t.Fatalf("reading snapshot dir: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("snapshot dir holds %d files, want 2", len(entries))
	}

	if entries[0].Name() == entries[1].Name() {
		t.Error("snapshots share a filename")
	}
}

// TestSessionRecordsVideo processes three frames with an output path
// configured and verifies the recording holds exactly three frames
func TestSessionRecordsVideo(t *testing.T) {

	out := filepath.Join(t.TempDir(), "annotated.avi")
	src := &fakeSource{frames: 3}
	session := newTestSession(t, Config{OutputPath: out, Codec: "MJPG"}, &fakeDisplay{})

	if err := session.run(src); err != nil {
		t.Fatalf("run: %v", err)
	}

	video, err := gocv.VideoCaptureFile(out)

	if err != nil {
		t.Fatalf("reopening recording: %v", err)
	}

	defer video.Close()

	count := 0
	frame := gocv.NewMat()
	defer frame.Close()

	for video.Read(&frame) {
		count++
	}

	if count != 3 {
		t.Errorf("recording holds %d frames, want 3", count)
	}
}

// TestSessionHeadless verifies a nil display runs the stream to completion
// without polling for keys
func TestSessionHeadless(t *testing.T) {

	src := &fakeSource{frames: 2}
	session := newTestSession(t, Config{}, nil)

	if err := session.run(src); err != nil {
		t.Fatalf("run: %v", err)
	}

	if session.Statistics().Frames() != 2 {
		t.Errorf("processed %d frames, want 2", session.Statistics().Frames())
	}
}

// TestNewSessionMissingCascade verifies construction fails with a
// ModelLoadError before any frame is read
func TestNewSessionMissingCascade(t *testing.T) {

	cfg := DefaultConfig()
	cfg.CarCascade = filepath.Join(t.TempDir(), "missing.xml")
	cfg.PedestrianCascade = cfg.CarCascade

	_, err := NewSession(cfg, nil, nil)

	if err == nil {
		t.Fatal("expected error for missing cascade")
	}

	var mle *ModelLoadError

	if !errors.As(err, &mle) {
		t.Fatalf("error = %T, want *ModelLoadError", err)
	}
}

// TestNewSessionInvalidConfig verifies the configuration is validated
// before any model is loaded
func TestNewSessionInvalidConfig(t *testing.T) {

	cfg := DefaultConfig()
	cfg.Car.ScaleFactor = 1.0

	if _, err := NewSession(cfg, nil, nil); err == nil {
		t.Fatal("expected validation error for scale factor 1.0")
	}
}

// TestSessionRunBadSource verifies an unopenable source fails with a
// SourceOpenError, lands in the stopped state, and still releases the
// display
func TestSessionRunBadSource(t *testing.T) {

	cfg := Config{Source: filepath.Join(t.TempDir(), "missing.mp4")}
	display := &fakeDisplay{}
	session := newTestSession(t, cfg, display)

	err := session.Run()

	if err == nil {
		t.Fatal("expected error for missing video source")
	}

	var soe *SourceOpenError

	if !errors.As(err, &soe) {
		t.Fatalf("error = %T, want *SourceOpenError", err)
	}

	if session.State() != StateStopped {
		t.Errorf("state after failed open = %v, want %v", session.State(), StateStopped)
	}

	if display.closed != 1 {
		t.Errorf("display closed %d times after failed open, want 1", display.closed)
	}
}

// TestSessionWriteErrorTeardown verifies an encoding failure mid loop still
// runs the teardown path: the error surfaces, the state machine reaches
// stopped, and source and display are released exactly once
func TestSessionWriteErrorTeardown(t *testing.T) {

	out := filepath.Join(t.TempDir(), "annotated.avi")

	// second frame shrinks, the recording dimensions are fixed by the first
	src := &sizedSource{sizes: [][2]int{{120, 160}, {60, 80}}}
	display := &fakeDisplay{}
	session := newTestSession(t, Config{OutputPath: out, Codec: "MJPG"}, display)

	err := session.run(src)

	if err == nil {
		t.Fatal("expected error writing a frame of different dimensions")
	}

	var ee *EncodingError

	if !errors.As(err, &ee) {
		t.Fatalf("error = %T, want *EncodingError", err)
	}

	if session.State() != StateStopped {
		t.Errorf("state after write error = %v, want %v", session.State(), StateStopped)
	}

	if src.closed != 1 {
		t.Errorf("source closed %d times, want 1", src.closed)
	}

	if display.closed != 1 {
		t.Errorf("display closed %d times, want 1", display.closed)
	}
}

// TestSessionQuitDuringEmptyFrames verifies the key poll still runs while
// the source serves nothing but empty frames, so quit is never locked out
func TestSessionQuitDuringEmptyFrames(t *testing.T) {

	src := &emptyFrameSource{}
	display := &fakeDisplay{keys: []int{'q'}}
	session := newTestSession(t, Config{}, display)

	if err := session.run(src); err != nil {
		t.Fatalf("run: %v", err)
	}

	if session.State() != StateStopped {
		t.Errorf("state after quit = %v, want %v", session.State(), StateStopped)
	}

	if session.Statistics().Frames() != 0 {
		t.Errorf("recorded %d frames of empty reads, want 0", session.Statistics().Frames())
	}

	if src.reads != 1 {
		t.Errorf("source read %d times before quit, want 1", src.reads)
	}

	if src.closed != 1 {
		t.Errorf("source closed %d times, want 1", src.closed)
	}
}
