package roadwatch

import (
	"fmt"

	"github.com/roadwatch/roadwatch/render"
)

// Config is the full configuration bundle for a pipeline session. It is
// assembled by the caller, from CLI flags or a TOML file, and validated once
// before any resource is opened. The struct is treated as immutable after
// that.
type Config struct {
	// Source identifies the video input, either a file path or an integer
	// camera device index
	Source string `toml:"source"`
	// CarCascade and PedestrianCascade are paths to the pretrained Haar
	// cascade definition files
	CarCascade        string `toml:"car_cascade"`
	PedestrianCascade string `toml:"pedestrian_cascade"`
	// Car and Pedestrian are the per class detection parameters
	Car        DetectionParameters `toml:"car"`
	Pedestrian DetectionParameters `toml:"pedestrian"`
	// OutputPath, when set, records the annotated stream to this video file
	OutputPath string `toml:"output_path"`
	// SnapshotDir is the directory snapshot stills are written to
	SnapshotDir string `toml:"snapshot_dir"`
	// Codec is the fourcc code used for the output video container
	Codec string `toml:"codec"`
	// Style holds the presentation settings for boxes and the overlay
	Style render.Style `toml:"style"`
}

// DefaultConfig returns the stock configuration
func DefaultConfig() Config {
	return Config{
		Source:            "peds_and_cars.mp4",
		CarCascade:        "cars.xml",
		PedestrianCascade: "haarcascade_fullbody.xml",
		Car:               CarParams(),
		Pedestrian:        PedestrianParams(),
		SnapshotDir:       "output",
		Codec:             "mp4v",
		Style:             render.DefaultStyle(),
	}
}

// Validate checks the bundle. NewSession calls it before any resources are
// opened.
func (c Config) Validate() error {

	if c.Source == "" {
		return fmt.Errorf("no video source configured")
	}

	if c.CarCascade == "" {
		return fmt.Errorf("no car cascade file configured")
	}

	if c.PedestrianCascade == "" {
		return fmt.Errorf("no pedestrian cascade file configured")
	}

	if err := c.Car.Validate(); err != nil {
		return fmt.Errorf("car detection parameters: %w", err)
	}

	if err := c.Pedestrian.Validate(); err != nil {
		return fmt.Errorf("pedestrian detection parameters: %w", err)
	}

	if c.Style.Overlay.Alpha < 0 || c.Style.Overlay.Alpha > 1 {
		return fmt.Errorf("overlay alpha must be within [0, 1], got %v",
			c.Style.Overlay.Alpha)
	}

	return nil
}
