// Package scene describes the available visualizations and turns them into
// frame generators. Scenes are plain Config values; the built-in presets use
// the same shape as scene files.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// ErrUnknownScene is returned when a scene or preset name does not exist.
var ErrUnknownScene = errors.New("unknown scene")

var configExts = map[string]bool{
	".yaml": true,
	".yml":  true,
}

// IsConfigExt returns true if the extension is a supported scene file format.
func IsConfigExt(ext string) bool {
	return configExts[strings.ToLower(ext)]
}

// Vec is a point or direction written as [x, y, z].
type Vec [3]float64

// Axis is an inclusive linear range sampled at N points.
type Axis struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
	N   int     `yaml:"n"`
}

type ClockConfig struct {
	Mode      string  `yaml:"mode"`
	Scale     float64 `yaml:"scale,omitempty"`
	Amplitude float64 `yaml:"amplitude,omitempty"`
	Cycles    float64 `yaml:"cycles,omitempty"`
	Value     float64 `yaml:"value,omitempty"`
}

type SourceConfig struct {
	Kind     string  `yaml:"kind"`
	Position Vec     `yaml:"position"`
	Axis     *Vec    `yaml:"axis,omitempty"`
	Strength float64 `yaml:"strength"`
	// Oscillate moves the source along this axis by the clock time.
	Oscillate *Vec `yaml:"oscillate,omitempty"`
	// Drift moves the source with this velocity.
	Drift *Vec `yaml:"drift,omitempty"`
}

type GridConfig struct {
	X         Axis    `yaml:"x"`
	Y         Axis    `yaml:"y"`
	Z         Axis    `yaml:"z"`
	Exclude   float64 `yaml:"exclude,omitempty"`
	Normalize bool    `yaml:"normalize,omitempty"`
}

// ShellConfig places grid points on spheres around the origin.
type ShellConfig struct {
	Radii []float64 `yaml:"radii"`
	Theta int       `yaml:"theta"`
	Phi   int       `yaml:"phi"`
}

// LinesConfig seeds traced field lines on a sphere around each point charge.
type LinesConfig struct {
	Radius    float64 `yaml:"radius"`
	Theta     int     `yaml:"theta"`
	Phi       int     `yaml:"phi"`
	Step      float64 `yaml:"step"`
	Steps     int     `yaml:"steps"`
	MinRadius float64 `yaml:"min_radius"`
}

type LoopsConfig struct {
	Heights []float64 `yaml:"heights"`
	Radii   []float64 `yaml:"radii"`
	Samples int       `yaml:"samples,omitempty"`
}

type DipoleConfig struct {
	Axis     Vec       `yaml:"axis"`
	Radii    []float64 `yaml:"radii,omitempty"`
	Lines    int       `yaml:"lines,omitempty"`
	Samples  int       `yaml:"samples,omitempty"`
	Ensemble int       `yaml:"ensemble,omitempty"`
	Seed     uint64    `yaml:"seed,omitempty"`
	Resample bool      `yaml:"resample,omitempty"`
	Spin     float64   `yaml:"spin,omitempty"`
	Tick     float64   `yaml:"tick,omitempty"`
	Sphere   float64   `yaml:"sphere,omitempty"`
}

type WaveConfig struct {
	Profile    string  `yaml:"profile"`
	K          float64 `yaml:"k,omitempty"`
	Width      float64 `yaml:"width,omitempty"`
	Modulation float64 `yaml:"modulation,omitempty"`
	Extent     float64 `yaml:"extent"`
	N          int     `yaml:"n"`
	Speed      float64 `yaml:"speed,omitempty"`
	Rings      bool    `yaml:"rings,omitempty"`
	Guides     int     `yaml:"guides,omitempty"`
}

// SwingConfig is a sinusoidal camera offset in degrees. Cycles counts full
// periods over the scene's frames; a non-zero Rate, in radians per frame,
// replaces it so the wobble speed does not depend on the frame count.
type SwingConfig struct {
	Amplitude float64 `yaml:"amplitude"`
	Cycles    float64 `yaml:"cycles,omitempty"`
	Rate      float64 `yaml:"rate,omitempty"`
}

type CameraConfig struct {
	Elevation float64      `yaml:"elevation"`
	Azimuth   float64      `yaml:"azimuth"`
	Spin      float64      `yaml:"spin,omitempty"` // degrees per frame
	Swing     *SwingConfig `yaml:"swing,omitempty"`
	Planar    bool         `yaml:"planar,omitempty"`
	Extent    float64      `yaml:"extent,omitempty"`
}

// Config is one scene. Kind names the preset a file entry starts from; any
// field set in the entry replaces the preset's value.
type Config struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind,omitempty"`
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	Frames      int    `yaml:"frames,omitempty"`
	FPS         int    `yaml:"fps,omitempty"`

	Clock   *ClockConfig   `yaml:"clock,omitempty"`
	Sources []SourceConfig `yaml:"sources,omitempty"`
	Probes  []Vec          `yaml:"probes,omitempty"`
	Grid    *GridConfig    `yaml:"grid,omitempty"`
	Shells  *ShellConfig   `yaml:"shells,omitempty"`
	Lines   *LinesConfig   `yaml:"lines,omitempty"`
	Loops   *LoopsConfig   `yaml:"loops,omitempty"`
	Dipole  *DipoleConfig  `yaml:"dipole,omitempty"`
	Wave    *WaveConfig    `yaml:"wave,omitempty"`
	Camera  *CameraConfig  `yaml:"camera,omitempty"`
}

// File is the top level of a scene file.
type File struct {
	Scenes []Config `yaml:"scenes"`
}

// Parse decodes scene file data and resolves every entry against its preset.
func Parse(data []byte) ([]Config, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scene file: %w", err)
	}
	if len(f.Scenes) == 0 {
		return nil, fmt.Errorf("scene file has no scenes")
	}
	out := make([]Config, 0, len(f.Scenes))
	for i, c := range f.Scenes {
		resolved, err := Resolve(c)
		if err != nil {
			return nil, fmt.Errorf("scene %d: %w", i+1, err)
		}
		out = append(out, resolved)
	}
	return out, nil
}

// Load reads and parses a scene file.
func Load(path string) ([]Config, error) {
	ext := filepath.Ext(path)
	if !IsConfigExt(ext) {
		return nil, fmt.Errorf("unsupported scene file format %s", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return Parse(data)
}

// Marshal encodes configs as a scene file.
func Marshal(configs []Config) ([]byte, error) {
	return yaml.Marshal(File{Scenes: configs})
}

// Resolve overlays c on the preset named by c.Kind. Entries without a kind
// must be complete on their own.
func Resolve(c Config) (Config, error) {
	if c.Kind == "" {
		if c.Name == "" {
			return Config{}, fmt.Errorf("scene needs a name or a kind")
		}
		return c, nil
	}
	base, ok := Preset(c.Kind)
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownScene, c.Kind)
	}
	return merge(base, c), nil
}

func merge(base, over Config) Config {
	out := base
	out.Kind = over.Kind
	if over.Name != "" {
		out.Name = over.Name
	}
	if over.Title != "" {
		out.Title = over.Title
	}
	if over.Description != "" {
		out.Description = over.Description
	}
	if over.Frames > 0 {
		out.Frames = over.Frames
	}
	if over.FPS > 0 {
		out.FPS = over.FPS
	}
	if over.Clock != nil {
		out.Clock = over.Clock
	}
	if over.Sources != nil {
		out.Sources = over.Sources
	}
	if over.Probes != nil {
		out.Probes = over.Probes
	}
	if over.Grid != nil {
		out.Grid = over.Grid
	}
	if over.Shells != nil {
		out.Shells = over.Shells
	}
	if over.Lines != nil {
		out.Lines = over.Lines
	}
	if over.Loops != nil {
		out.Loops = over.Loops
	}
	if over.Dipole != nil {
		out.Dipole = over.Dipole
	}
	if over.Wave != nil {
		out.Wave = over.Wave
	}
	if over.Camera != nil {
		out.Camera = over.Camera
	}
	return out
}
