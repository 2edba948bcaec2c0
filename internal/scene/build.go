package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/olivier-w/fieldviz/internal/clock"
	"github.com/olivier-w/fieldviz/internal/field"
	"github.com/olivier-w/fieldviz/internal/frame"
	"github.com/olivier-w/fieldviz/internal/geom"
	"github.com/olivier-w/fieldviz/internal/trace"
)

const defaultFPS = 30

// Scene is a built visualization ready for playback or export.
type Scene struct {
	Name        string
	Title       string
	Description string
	FPS         int
	Generator   frame.Generator
	Config      Config
}

// Frames returns the number of frames in the scene.
func (s *Scene) Frames() int {
	return s.Generator.Frames()
}

// Duration returns the playing time of one pass at the scene fps.
func (s *Scene) Duration() time.Duration {
	return time.Duration(s.Frames()) * time.Second / time.Duration(s.fps())
}

// FrameInterval returns the time between frames at the scene fps.
func (s *Scene) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.fps())
}

func (s *Scene) fps() int {
	if s.FPS <= 0 {
		return defaultFPS
	}
	return s.FPS
}

// Overrides are command line adjustments applied on top of a config.
type Overrides struct {
	Frames int
	FPS    int
	Seed   *uint64
}

// Apply returns c with the non-zero overrides set.
func (o Overrides) Apply(c Config) Config {
	if o.Frames > 0 {
		c.Frames = o.Frames
	}
	if o.FPS > 0 {
		c.FPS = o.FPS
	}
	if o.Seed != nil && c.Dipole != nil {
		d := *c.Dipole
		d.Seed = *o.Seed
		c.Dipole = &d
	}
	return c
}

// Build turns a resolved config into a scene.
func Build(c Config) (*Scene, error) {
	if c.Frames <= 0 {
		return nil, fmt.Errorf("%w: scene %q has no frames", clock.ErrInvalidClock, c.Name)
	}
	clk, err := buildClock(c.Frames, c.Clock)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", c.Name, err)
	}
	sources, err := buildSources(c.Sources)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", c.Name, err)
	}
	sampling, err := buildSampling(c)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", c.Name, err)
	}
	cam, err := buildCamera(c.Frames, c.Camera)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", c.Name, err)
	}
	gen, err := frame.NewGenerator(clk, sources, sampling, cam)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", c.Name, err)
	}
	fps := c.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	title := c.Title
	if title == "" {
		title = c.Name
	}
	return &Scene{
		Name:        c.Name,
		Title:       title,
		Description: c.Description,
		FPS:         fps,
		Generator:   gen,
		Config:      c,
	}, nil
}

// BuildAll builds configs in order, stopping at the first failure.
func BuildAll(configs []Config) ([]*Scene, error) {
	out := make([]*Scene, 0, len(configs))
	for _, c := range configs {
		s, err := Build(c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func buildClock(frames int, c *ClockConfig) (clock.Clock, error) {
	if c == nil {
		return clock.NewFixed(frames, 0)
	}
	mode, err := clock.ParseMode(c.Mode)
	if err != nil {
		return clock.Clock{}, err
	}
	switch mode {
	case clock.Sinusoidal:
		return clock.NewSinusoidal(frames, c.Amplitude, c.Cycles)
	case clock.Fixed:
		return clock.NewFixed(frames, c.Value)
	default:
		return clock.NewLinear(frames, c.Scale)
	}
}

func buildSources(cs []SourceConfig) ([]frame.Animated, error) {
	out := make([]frame.Animated, 0, len(cs))
	for _, c := range cs {
		kind, err := field.ParseKind(c.Kind)
		if err != nil {
			return nil, err
		}
		src := field.Source{Kind: kind, Position: c.Position.point(), Axis: geom.UnitZ, Strength: c.Strength}
		if c.Axis != nil {
			src.Axis = c.Axis.vector()
		}
		a := frame.Animated{Source: src}
		switch {
		case c.Oscillate != nil:
			a.Motion = frame.Oscillation{Axis: c.Oscillate.vector()}
		case c.Drift != nil:
			a.Motion = frame.Drift{Velocity: c.Drift.vector()}
		}
		out = append(out, a)
	}
	return out, nil
}

// shellPoints samples a sphere of radius r on nTheta polar angles, poles
// included, and nPhi azimuths that stop short of 2π.
func shellPoints(r float64, nTheta, nPhi int) []geom.Point3 {
	phis := geom.LinspaceOpen(nPhi, 0, 2*math.Pi)
	out := make([]geom.Point3, 0, nTheta*len(phis))
	for _, theta := range geom.Linspace(nTheta, 0, math.Pi) {
		for _, phi := range phis {
			out = append(out, geom.Spherical(geom.Point3{}, r, theta, phi))
		}
	}
	return out
}

func buildSampling(c Config) (frame.Sampling, error) {
	var s frame.Sampling
	for _, p := range c.Probes {
		s.Probes = append(s.Probes, p.point())
	}
	if g := c.Grid; g != nil {
		s.Grid = geom.Lattice(g.X.values(), g.Y.values(), g.Z.values())
		if g.Exclude > 0 {
			s.Mask = frame.ExcludeNear(g.Exclude)
		}
		s.Normalize = g.Normalize
	}
	if sh := c.Shells; sh != nil {
		for _, r := range sh.Radii {
			s.Grid = append(s.Grid, shellPoints(r, sh.Theta, sh.Phi)...)
		}
	}
	if l := c.Lines; l != nil {
		p, err := trace.NewParams(l.Step, l.Steps, l.MinRadius)
		if err != nil {
			return s, err
		}
		s.Trace = p
		s.Seeds = trace.SphereSeeds(geom.Point3{}, l.Radius, l.Theta, l.Phi)
	}
	if l := c.Loops; l != nil {
		samples := l.Samples
		if samples <= 0 {
			samples = 64
		}
		s.Loops = &frame.LoopSampling{Heights: l.Heights, Radii: l.Radii, Samples: samples}
	}
	if d := c.Dipole; d != nil {
		shape := trace.DefaultDipoleShape
		if len(d.Radii) > 0 {
			shape.Radii = d.Radii
		}
		if d.Lines > 0 {
			shape.LinesPerShell = d.Lines
		}
		if d.Samples > 0 {
			shape.Samples = d.Samples
		}
		s.Dipole = &frame.DipoleSampling{
			Axis:     d.Axis.vector(),
			Shape:    shape,
			Ensemble: d.Ensemble,
			Seed:     d.Seed,
			Resample: d.Resample,
			Spin:     d.Spin,
			Tick:     d.Tick,
			Sphere:   d.Sphere,
		}
	}
	if w := c.Wave; w != nil {
		wave, err := buildWave(w)
		if err != nil {
			return s, err
		}
		s.Wave = wave
	}
	return s, nil
}

// Profiles maps wave profile names to their shapes.
var Profiles = map[string]frame.Profile{
	"snapshot":  frame.SnapshotProfile,
	"planar":    frame.PlanarProfile,
	"modulated": frame.ModulatedProfile,
}

func buildWave(w *WaveConfig) (*frame.Wavefront, error) {
	profile, ok := Profiles[w.Profile]
	if !ok && w.Profile != "" {
		return nil, fmt.Errorf("%w: unknown wave profile %q", field.ErrInvalidConfig, w.Profile)
	}
	if w.K != 0 {
		profile.K = w.K
	}
	if w.Width != 0 {
		profile.Width = w.Width
	}
	if w.Modulation != 0 {
		profile.Modulation = w.Modulation
	}
	if !(w.Extent > 0) || w.N < 2 {
		return nil, fmt.Errorf("%w: wave grid needs a positive extent and n >= 2", field.ErrInvalidConfig)
	}
	axis := geom.Linspace(w.N, -w.Extent, w.Extent)
	return &frame.Wavefront{
		Xs:      axis,
		Ys:      axis,
		Speed:   w.Speed,
		Profile: profile,
		Rings:   w.Rings,
		Guides:  w.Guides,
	}, nil
}

func buildCamera(frames int, c *CameraConfig) (frame.Camera, error) {
	if c == nil {
		return frame.Camera{Elevation: 20, Extent: 3}, nil
	}
	cam := frame.Camera{Elevation: c.Elevation, Azimuth: c.Azimuth, Planar: c.Planar, Extent: c.Extent}
	if cam.Extent <= 0 {
		cam.Extent = 3
	}
	if c.Spin != 0 {
		spin, err := clock.NewLinear(frames, c.Spin)
		if err != nil {
			return cam, err
		}
		cam.Spin = &spin
	}
	if c.Swing != nil {
		cycles := c.Swing.Cycles
		if c.Swing.Rate != 0 {
			cycles = c.Swing.Rate * float64(frames) / (2 * math.Pi)
		}
		swing, err := clock.NewSinusoidal(frames, c.Swing.Amplitude, cycles)
		if err != nil {
			return cam, err
		}
		cam.Swing = &swing
	}
	return cam, nil
}

func (v Vec) point() geom.Point3   { return geom.Point3{X: v[0], Y: v[1], Z: v[2]} }
func (v Vec) vector() geom.Vector3 { return geom.Vector3{X: v[0], Y: v[1], Z: v[2]} }

func (a Axis) values() []float64 {
	if a.N <= 0 {
		return nil
	}
	return geom.Linspace(a.N, a.Min, a.Max)
}
