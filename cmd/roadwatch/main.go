package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/lmittmann/tint"

	"github.com/roadwatch/roadwatch"
)

func main() {

	video := flag.String("video", "", "path to the input video file")
	camera := flag.Bool("camera", false, "use the default webcam instead of a video file")
	output := flag.String("output", "", "path to save the annotated output video")
	carCascade := flag.String("car-cascade", "cars.xml", "path to the car Haar cascade file")
	pedCascade := flag.String("pedestrian-cascade", "haarcascade_fullbody.xml", "path to the pedestrian Haar cascade file")
	snapshotDir := flag.String("snapshot-dir", "output", "directory snapshot images are written to")
	configFile := flag.String("config", "", "optional TOML configuration file")
	verbose := flag.Bool("verbose", false, "enable debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	)

	cfg := roadwatch.DefaultConfig()

	if *configFile != "" {
		if _, err := toml.DecodeFile(*configFile, &cfg); err != nil {
			logger.Error("loading config file", "path", *configFile, "error", err)
			os.Exit(1)
		}
	}

	// flags set on the command line override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "video":
			cfg.Source = *video
		case "output":
			cfg.OutputPath = *output
		case "car-cascade":
			cfg.CarCascade = *carCascade
		case "pedestrian-cascade":
			cfg.PedestrianCascade = *pedCascade
		case "snapshot-dir":
			cfg.SnapshotDir = *snapshotDir
		}
	})

	if *camera {
		cfg.Source = "0"
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("session failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg roadwatch.Config, logger *slog.Logger) error {

	display := roadwatch.NewWindow("Car and Pedestrian Detector")

	session, err := roadwatch.NewSession(cfg, display, logger)

	if err != nil {
		display.Close()
		return err
	}

	defer session.Close()

	// Run takes over the display and releases it on every exit path
	return session.Run()
}
