package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/olivier-w/fieldviz/internal/export"
	"github.com/olivier-w/fieldviz/internal/render"
	"github.com/olivier-w/fieldviz/internal/scene"
	"github.com/olivier-w/fieldviz/internal/ui"
	"github.com/olivier-w/fieldviz/internal/util"
)

func main() {
	flag.Parse()
	closeLog := setupLogging(*logFileFlag, levelFlag.value)
	err := run()
	closeLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends slog output to a rotating log file, since the terminal
// belongs to the viewer. An empty path discards logs.
func setupLogging(path string, level slog.Level) func() {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(lj, &slog.HandlerOptions{Level: level})))
	return func() { lj.Close() }
}

func run() error {
	configs, err := loadConfigs(*configFlag)
	if err != nil {
		return err
	}
	if *listFlag {
		return listScenes(os.Stdout, configs)
	}
	ov := scene.Overrides{Frames: *framesFlag, FPS: *fpsFlag, Seed: seed.value}

	if *exportFlag != "" {
		return runExport(configs, *sceneFlag, ov)
	}

	opt, err := viewerOptions()
	if err != nil {
		return err
	}
	var model tea.Model
	if *sceneFlag != "" {
		m, err := buildViewer(configs, *sceneFlag, ov, opt)
		if err != nil {
			return err
		}
		model = m
	} else {
		model = newStartupModel(configs, ov, opt)
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func viewerOptions() (ui.Options, error) {
	style, err := render.ParseStyle(*styleFlag)
	if err != nil {
		return ui.Options{}, err
	}
	opt := ui.Options{
		Style:   style,
		Color:   render.DetectColorMode(),
		Workers: *workersFlag,
		Export:  exportOptions(),
	}
	if *asciiFlag {
		opt.Style, opt.Color = render.ASCII, render.ColorOff
	}
	return opt, nil
}

func exportOptions() export.Options {
	opt := export.DefaultOptions
	opt.Width = *widthFlag
	opt.Height = *heightFlag
	opt.Workers = *workersFlag
	return opt
}

// runExport writes one scene to a GIF while showing progress. Without a
// scene name the first config is exported.
func runExport(configs []scene.Config, name string, ov scene.Overrides) error {
	var c scene.Config
	switch {
	case name != "":
		var err error
		if c, err = scene.Lookup(configs, name); err != nil {
			return err
		}
	case len(configs) > 0:
		c = configs[0]
	default:
		return errors.New("no scene to export")
	}
	sc, err := scene.Build(ov.Apply(c))
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(newExportModel(sc, *exportFlag, exportOptions())).Run()
	if err != nil {
		return err
	}
	m, ok := final.(exportModel)
	if !ok {
		return fmt.Errorf("unexpected model type from export")
	}
	if m.err != nil {
		return m.err
	}
	fmt.Printf("Wrote %s: %d frames, %s in %s\n",
		m.result.Path, m.result.Frames, util.FormatBytes(m.result.Bytes), m.result.Elapsed.Round(time.Millisecond))
	return nil
}

func listScenes(w io.Writer, configs []scene.Config) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFRAMES\tFPS\tTITLE")
	for _, c := range configs {
		title := c.Title
		if title == "" {
			title = c.Name
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", c.Name, c.Frames, c.FPS, title)
	}
	return tw.Flush()
}
