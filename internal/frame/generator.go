package frame

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/olivier-w/fieldviz/internal/clock"
	"github.com/olivier-w/fieldviz/internal/field"
)

// Camera produces the View of each frame. Swing and Spin are optional clocks
// added to the base elevation and azimuth.
type Camera struct {
	Elevation float64
	Azimuth   float64
	Swing     *clock.Clock
	Spin      *clock.Clock
	Planar    bool
	Extent    float64
}

// At returns the view for frame i.
func (c Camera) At(i int) View {
	v := View{Elevation: c.Elevation, Azimuth: c.Azimuth, Planar: c.Planar, Extent: c.Extent}
	if c.Swing != nil {
		v.Elevation += c.Swing.Time(i)
	}
	if c.Spin != nil {
		v.Azimuth = math.Mod(v.Azimuth+c.Spin.Time(i), 360)
	}
	return v
}

// Generator bundles everything needed to compute any frame of a scene.
type Generator struct {
	Clock    clock.Clock
	Sources  []Animated
	Sampling Sampling
	Camera   Camera
}

// NewGenerator validates the parts of a scene up front so that computing a
// frame can only fail on its index.
func NewGenerator(clk clock.Clock, sources []Animated, s Sampling, cam Camera) (Generator, error) {
	g := Generator{Clock: clk, Sources: sources, Sampling: s, Camera: cam}
	if err := g.Validate(); err != nil {
		return Generator{}, err
	}
	return g, nil
}

func (g Generator) Validate() error {
	if g.Clock.Frames() <= 0 {
		return fmt.Errorf("%w: generator has no frames", clock.ErrInvalidClock)
	}
	for i, a := range g.Sources {
		if err := a.Source.Validate(); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
	}
	if len(g.Sampling.Seeds) > 0 {
		if err := g.Sampling.Trace.Validate(); err != nil {
			return err
		}
	}
	if d := g.Sampling.Dipole; d != nil {
		if len(d.Shape.Radii) == 0 || d.Shape.LinesPerShell <= 0 || d.Shape.Samples < 2 {
			return fmt.Errorf("%w: dipole shape %+v", field.ErrInvalidConfig, d.Shape)
		}
		if d.Ensemble < 0 {
			return fmt.Errorf("%w: negative dipole ensemble %d", field.ErrInvalidConfig, d.Ensemble)
		}
		if !(d.Sphere >= 0) || math.IsInf(d.Sphere, 1) {
			return fmt.Errorf("%w: dipole sphere radius %v", field.ErrInvalidConfig, d.Sphere)
		}
	}
	if l := g.Sampling.Loops; l != nil {
		for _, r := range l.Radii {
			if !(r > 0) {
				return fmt.Errorf("%w: loop radius %v", field.ErrInvalidConfig, r)
			}
		}
	}
	return nil
}

func (g Generator) Frames() int { return g.Clock.Frames() }

// Frame computes frame i with its camera view.
func (g Generator) Frame(i int) (State, error) {
	st, err := ComputeFrame(i, g.Clock, g.Sources, g.Sampling)
	if err != nil {
		return State{}, err
	}
	st.View = g.Camera.At(i)
	return st, nil
}

// Sequence computes every frame of gen on up to workers goroutines and
// returns them in index order. workers <= 0 uses GOMAXPROCS.
func Sequence(ctx context.Context, gen Generator, workers int) ([]State, error) {
	out := make([]State, gen.Frames())
	err := Each(ctx, gen.Frames(), workers, func(i int) error {
		st, err := gen.Frame(i)
		if err != nil {
			return err
		}
		out[i] = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Each runs fn for 0..n-1 on up to workers goroutines. It stops scheduling
// once ctx is done or fn fails, and returns the first error.
func Each(ctx context.Context, n, workers int, fn func(i int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
