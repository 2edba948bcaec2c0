package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/olivier-w/fieldviz/internal/queue"
	"github.com/olivier-w/fieldviz/internal/scene"
	"github.com/olivier-w/fieldviz/internal/ui"
)

// loadConfigs returns the scenes of the file at path, or the built-in scenes
// when path is empty.
func loadConfigs(path string) ([]scene.Config, error) {
	if path == "" {
		return scene.Presets(), nil
	}
	return scene.Load(path)
}

// buildViewer builds every config and opens the viewer on the scene called
// start, or on the first one when start is empty. A start name missing from
// configs is looked up among the built-in scenes and appended.
func buildViewer(configs []scene.Config, start string, ov scene.Overrides, opt ui.Options) (ui.Model, error) {
	if start != "" && !slices.ContainsFunc(configs, func(c scene.Config) bool { return c.Name == start }) {
		c, err := scene.Lookup(configs, start)
		if err != nil {
			return ui.Model{}, err
		}
		configs = append(slices.Clip(configs), c)
	}
	if len(configs) == 0 {
		return ui.Model{}, errors.New("no scenes to play")
	}

	resolved := make([]scene.Config, len(configs))
	for i, c := range configs {
		resolved[i] = ov.Apply(c)
	}
	scenes, err := scene.BuildAll(resolved)
	if err != nil {
		return ui.Model{}, err
	}

	q := queue.New(scenes)
	if start != "" {
		q.SetCurrentIndex(q.IndexOf(start))
	}
	return ui.New(q, opt)
}

// openSelection builds the viewer for a picker choice and computes the
// frames of the first scene, reporting progress on statusCh.
func openSelection(ctx context.Context, sel ui.PickerSelectedMsg, configs []scene.Config, ov scene.Overrides, opt ui.Options, statusCh chan<- openStatus) (ui.Model, error) {
	start := sel.Name
	if sel.Path != "" {
		loaded, err := scene.Load(sel.Path)
		if err != nil {
			return ui.Model{}, err
		}
		configs, start = loaded, ""
	}

	m, err := buildViewer(configs, start, ov, opt)
	if err != nil {
		return ui.Model{}, err
	}
	err = m.Session().Prefetch(ctx, opt.Workers, func(done, total int) {
		select {
		case statusCh <- openStatus{done: done, total: total}:
		default:
		}
	})
	if err != nil {
		m.Session().Close()
		return ui.Model{}, fmt.Errorf("computing frames: %w", err)
	}
	return m, nil
}
