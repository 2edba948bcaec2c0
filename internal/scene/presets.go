package scene

import (
	"fmt"
	"slices"
)

// Presets returns the built-in scenes in display order. Each call returns
// fresh values that the caller may modify.
func Presets() []Config {
	return []Config{
		{
			Name:        "static-charge",
			Title:       "Static electron in 3D",
			Description: "Coulomb field of an electron with traced field lines",
			Frames:      360,
			FPS:         60,
			Clock:       &ClockConfig{Mode: "fixed"},
			Sources:     []SourceConfig{{Kind: "electric-point", Strength: -1}},
			Grid: &GridConfig{
				X:       Axis{Min: -2, Max: 2, N: 8},
				Y:       Axis{Min: -2, Max: 2, N: 8},
				Z:       Axis{Min: -2, Max: 2, N: 8},
				Exclude: 0.3,
			},
			Lines:  &LinesConfig{Radius: 2, Theta: 6, Phi: 8, Step: 0.05, Steps: 50, MinRadius: 0.2},
			Camera: &CameraConfig{Elevation: 20, Spin: 2, Swing: &SwingConfig{Amplitude: 10, Rate: 0.1}, Extent: 2.5},
		},
		{
			Name:        "oscillating-charge",
			Title:       "Oscillating electron, near field",
			Description: "Field components at a fixed probe while the electron oscillates",
			Frames:      60,
			FPS:         30,
			Clock:       &ClockConfig{Mode: "sinusoidal", Amplitude: 0.5, Cycles: 2},
			Sources: []SourceConfig{{
				Kind:      "electric-point",
				Strength:  -1.602e-19,
				Oscillate: &Vec{0, 1, 0},
			}},
			Probes: []Vec{{1, 0, 0}},
			Camera: &CameraConfig{Elevation: 90, Azimuth: -90, Planar: true, Extent: 1.1},
		},
		{
			Name:        "dc-wire",
			Title:       "Magnetic field of a DC conductor",
			Description: "Circular B field around a straight wire carrying 10 A along +Z",
			Frames:      180,
			FPS:         30,
			Clock:       &ClockConfig{Mode: "fixed"},
			Sources:     []SourceConfig{{Kind: "magnetic-wire", Axis: &Vec{0, 0, 1}, Strength: 10}},
			Grid: &GridConfig{
				X:         Axis{Min: -1.8, Max: 1.8, N: 6},
				Y:         Axis{Min: -1.8, Max: 1.8, N: 6},
				Z:         Axis{Min: -1.5, Max: 1.5, N: 5},
				Exclude:   0.06,
				Normalize: true,
			},
			Loops:  &LoopsConfig{Heights: []float64{-1.5, -0.75, 0, 0.75, 1.5}, Radii: []float64{0.5, 1, 1.5}, Samples: 64},
			Camera: &CameraConfig{Elevation: 20, Azimuth: 45, Spin: 0.5, Extent: 2.2},
		},
		{
			Name:        "spin-measured",
			Title:       "Electron after spin measurement",
			Description: "Radial E field and the dipole B field of a spin-up electron",
			Frames:      120,
			FPS:         30,
			Clock:       &ClockConfig{Mode: "fixed"},
			Sources:     []SourceConfig{{Kind: "electric-point", Strength: -1.602e-19}},
			Shells:      &ShellConfig{Radii: []float64{1, 2}, Theta: 4, Phi: 8},
			Grid:        &GridConfig{Normalize: true},
			Dipole:      &DipoleConfig{Axis: Vec{0, 0, 1}, Spin: 1, Tick: 0.2},
			Camera:      &CameraConfig{Elevation: 20, Azimuth: 30, Spin: 3, Extent: 3},
		},
		{
			Name:        "spin-superposition",
			Title:       "Electron spin in superposition",
			Description: "Dipole fields of 50 equally likely spin orientations",
			Frames:      60,
			FPS:         10,
			Clock:       &ClockConfig{Mode: "fixed"},
			Sources:     []SourceConfig{{Kind: "electric-point", Strength: -1.602e-19}},
			Dipole:      &DipoleConfig{Ensemble: 50, Seed: 1, Resample: true, Sphere: 1.5},
			Camera:      &CameraConfig{Elevation: 20, Azimuth: 30, Spin: 2, Extent: 3},
		},
		{
			Name:        "wavefront-snapshot",
			Title:       "Light cone at t = 3",
			Description: "A radiated pulse has only reached r <= ct",
			Frames:      240,
			FPS:         60,
			Clock:       &ClockConfig{Mode: "fixed", Value: 3},
			Wave:        &WaveConfig{Profile: "snapshot", Extent: 5, N: 50, Guides: 8},
			Camera:      &CameraConfig{Elevation: 30, Spin: 1.5, Extent: 5},
		},
		{
			Name:        "wavefront-2d",
			Title:       "Wavefront propagation",
			Description: "Expanding front with rings at integer radii",
			Frames:      300,
			FPS:         60,
			Clock:       &ClockConfig{Mode: "linear", Scale: 0.08},
			Wave:        &WaveConfig{Profile: "planar", Extent: 6, N: 150, Rings: true},
			Camera:      &CameraConfig{Elevation: 90, Azimuth: -90, Planar: true, Extent: 6},
		},
		{
			Name:        "wavefront-3d",
			Title:       "Wavefront in 3D",
			Description: "Modulated pulse seen from a rotating camera",
			Frames:      300,
			FPS:         60,
			Clock:       &ClockConfig{Mode: "linear", Scale: 0.1},
			Wave:        &WaveConfig{Profile: "modulated", Extent: 5, N: 40, Guides: 8},
			Camera:      &CameraConfig{Elevation: 20, Spin: 0.75, Extent: 5},
		},
	}
}

// Preset returns the built-in scene called name.
func Preset(name string) (Config, bool) {
	for _, c := range Presets() {
		if c.Name == name {
			return c, true
		}
	}
	return Config{}, false
}

// Names lists the preset names in display order.
func Names() []string {
	ps := Presets()
	out := make([]string, len(ps))
	for i, c := range ps {
		out[i] = c.Name
	}
	return out
}

// Lookup finds name among configs first and then among the presets.
func Lookup(configs []Config, name string) (Config, error) {
	if i := slices.IndexFunc(configs, func(c Config) bool { return c.Name == name }); i >= 0 {
		return configs[i], nil
	}
	if c, ok := Preset(name); ok {
		return c, nil
	}
	return Config{}, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}
