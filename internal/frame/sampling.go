package frame

import (
	"github.com/olivier-w/fieldviz/internal/field"
	"github.com/olivier-w/fieldviz/internal/geom"
	"github.com/olivier-w/fieldviz/internal/trace"
)

// Motion moves a source as a function of clock time.
type Motion interface {
	Displacement(t float64) geom.Vector3
}

// Oscillation displaces a source along Axis by the clock time. Paired with a
// sinusoidal clock this is amplitude·sin(phase) along the axis.
type Oscillation struct {
	Axis geom.Vector3
}

func (o Oscillation) Displacement(t float64) geom.Vector3 {
	return o.Axis.Scale(t)
}

// Drift moves a source uniformly with Velocity.
type Drift struct {
	Velocity geom.Vector3
}

func (d Drift) Displacement(t float64) geom.Vector3 {
	return d.Velocity.Scale(t)
}

// Animated is a source whose position may depend on time. A nil Motion keeps
// the source where it is.
type Animated struct {
	Source field.Source
	Motion Motion
}

// Static wraps sources that never move.
func Static(sources ...field.Source) []Animated {
	out := make([]Animated, len(sources))
	for i, s := range sources {
		out[i] = Animated{Source: s}
	}
	return out
}

// At returns the source placed for time t. The receiver is not modified.
func (a Animated) At(t float64) field.Source {
	if a.Motion == nil {
		return a.Source
	}
	return a.Source.WithPosition(a.Source.Position.Add(a.Motion.Displacement(t)))
}

// Mask decides whether a grid point is sampled given the sources of the
// current frame. A nil Mask samples every point.
type Mask func(p geom.Point3, sources []field.Source) bool

// ExcludeNear rejects points closer than r to any source, measuring
// perpendicular distance for wires.
func ExcludeNear(r float64) Mask {
	return func(p geom.Point3, sources []field.Source) bool {
		for _, s := range sources {
			if field.Distance(p, s) < r {
				return false
			}
		}
		return true
	}
}

// DipoleSampling draws parametric dipole field lines around Center. With
// Ensemble > 0 it draws that many random orientations instead of Axis.
type DipoleSampling struct {
	Center geom.Point3
	Axis   geom.Vector3
	Shape  trace.DipoleShape

	Ensemble int
	Seed     uint64
	Resample bool // draw a new ensemble each frame

	Spin float64 // length of the spin arrow, 0 for none
	Tick float64 // length of the direction arrow at each line midpoint, 0 for none
	// Sphere is the radius of a wireframe sphere around the center, 0 for none.
	Sphere float64
}

// LoopSampling draws circular field lines around every wire source, one per
// (height, radius) pair, heights measured along the wire axis.
type LoopSampling struct {
	Heights []float64
	Radii   []float64
	Samples int
}

// Sampling selects what a frame computes. Every part is optional.
type Sampling struct {
	// Probes get a total arrow, per-axis component arrows and a segment
	// from each point charge.
	Probes []geom.Point3

	// Grid points get the superposed field of all sources where Mask allows.
	Grid []geom.Point3
	Mask Mask
	// Normalize stores grid arrows as unit vectors. Magnitude keeps the
	// field strength, which still sets the drawn length and color.
	Normalize bool

	// Seeds are offsets from each point charge. Lines are traced from
	// there with Trace and follow the charge when it moves.
	Seeds []geom.Point3
	Trace trace.Params

	Dipole *DipoleSampling
	Loops  *LoopSampling
	Wave   *Wavefront
}
