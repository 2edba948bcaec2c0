package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type logLevelFlag struct {
	value slog.Level
}

func (l *logLevelFlag) String() string {
	return l.value.String()
}

func (l *logLevelFlag) Set(value string) error {
	m := map[string]slog.Level{"DEBUG": slog.LevelDebug, "INFO": slog.LevelInfo, "WARN": slog.LevelWarn, "ERROR": slog.LevelError}
	v, ok := m[strings.ToUpper(value)]
	if !ok {
		return fmt.Errorf("unknown log level")
	}
	l.value = v
	return nil
}

// seedFlag is an optional superposition seed.
type seedFlag struct {
	value *uint64
}

func (s *seedFlag) String() string {
	if s.value == nil {
		return ""
	}
	return fmt.Sprint(*s.value)
}

func (s *seedFlag) Set(value string) error {
	var v uint64
	if _, err := fmt.Sscan(value, &v); err != nil {
		return fmt.Errorf("invalid seed %q", value)
	}
	s.value = &v
	return nil
}

// defined flags
var (
	levelFlag   logLevelFlag
	seed        seedFlag
	sceneFlag   = flag.String("scene", "", "Scene to open, skipping the picker")
	configFlag  = flag.String("config", "", "Scene file (.yaml) to load instead of the built-in scenes")
	exportFlag  = flag.String("export", "", "Write the scene to this .gif file and exit")
	widthFlag   = flag.Int("width", 480, "Export width in pixels")
	heightFlag  = flag.Int("height", 480, "Export height in pixels")
	fpsFlag     = flag.Int("fps", 0, "Override the scene frame rate")
	framesFlag  = flag.Int("frames", 0, "Override the scene frame count")
	workersFlag = flag.Int("workers", 0, "Frames computed in parallel (0 = number of CPUs)")
	listFlag    = flag.Bool("list", false, "List the available scenes and exit")
	logFileFlag = flag.String("logfile", filepath.Join(os.TempDir(), "fieldviz.log"), "Log file; empty discards logs")
	styleFlag   = flag.String("style", "halfblock", "Terminal style: halfblock, braille or ascii")
	asciiFlag   = flag.Bool("ascii", false, "Plain ASCII output without colors")
)

func init() {
	levelFlag.value = slog.LevelInfo
	flag.Var(&levelFlag, "loglevel", "set log level")
	flag.Var(&seed, "seed", "Seed for random spin orientations")
}
