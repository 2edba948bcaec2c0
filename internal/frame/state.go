// Package frame turns a frame index into the geometry of one animation frame.
// Frames are pure functions of their index: nothing is carried from one frame
// to the next, so frames can be computed in any order or in parallel.
package frame

import (
	"errors"
	"math"

	"github.com/olivier-w/fieldviz/internal/field"
	"github.com/olivier-w/fieldviz/internal/geom"
	"github.com/olivier-w/fieldviz/internal/trace"
)

// ErrFrameOutOfRange is returned for indices outside [0, Frames).
var ErrFrameOutOfRange = errors.New("frame index out of range")

// ArrowRole tells the renderer how an arrow should be drawn.
type ArrowRole uint8

const (
	FieldArrow ArrowRole = iota
	ComponentX
	ComponentY
	ComponentZ
	SpinArrow
	TickArrow
)

// Scaled reports whether arrows of this role are drawn relative to the
// largest field sample. Spin and tick arrows keep their world length.
func (r ArrowRole) Scaled() bool {
	return r != SpinArrow && r != TickArrow
}

// Arrow is a field sample drawn at its evaluation point.
type Arrow struct {
	Origin    geom.Point3
	Vector    geom.Vector3
	Magnitude float64
	Role      ArrowRole
}

// Marker is a source or probe position.
type Marker struct {
	Position geom.Point3
	Kind     field.Kind
	Strength float64
	Probe    bool
}

// Polyline is a field line tagged with the group it belongs to. Lines of the
// same group share a source or an ensemble member.
type Polyline struct {
	trace.FieldLine
	Group int
}

// Segment is a straight helper line, such as a source-to-probe distance or a
// radial guide.
type Segment struct {
	From, To geom.Point3
}

// CircleRole distinguishes the expanding front from static rings.
type CircleRole uint8

const (
	FrontCircle CircleRole = iota
	RingCircle
	LoopCircle
	// ShellCircle outlines a sphere, such as the spin uncertainty region.
	ShellCircle
)

// Circle lies in the plane through Center perpendicular to Normal.
type Circle struct {
	Center geom.Point3
	Normal geom.Vector3
	Radius float64
	Role   CircleRole
}

// ScalarGrid is a row-major scalar field sampled over Xs × Ys.
type ScalarGrid struct {
	Xs, Ys []float64
	Values []float64
}

// At returns the value at column ix, row iy.
func (g *ScalarGrid) At(ix, iy int) float64 {
	return g.Values[iy*len(g.Xs)+ix]
}

// MaxAbs returns the largest absolute value on the grid.
func (g *ScalarGrid) MaxAbs() float64 {
	var m float64
	for _, v := range g.Values {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

// View is the camera hint for one frame. Angles are in degrees.
type View struct {
	Elevation float64
	Azimuth   float64
	Planar    bool
	Extent    float64 // half-width of the region worth showing
}

// State holds every primitive of one frame. A State is built fresh for each
// frame and is not modified afterwards.
type State struct {
	Index   int
	T       float64
	Sources []field.Source
	Markers []Marker
	Probes  []field.Sample
	Arrows  []Arrow
	Lines   []Polyline
	Segs    []Segment
	Circles []Circle
	Scalar  *ScalarGrid
	View    View
}

// Empty reports whether the frame has nothing to draw.
func (s State) Empty() bool {
	return len(s.Markers) == 0 && len(s.Arrows) == 0 && len(s.Lines) == 0 &&
		len(s.Segs) == 0 && len(s.Circles) == 0 && s.Scalar == nil
}

// MaxArrow returns the largest magnitude among scaled arrows. Normalized
// grid arrows carry a unit vector, so the magnitude is what sets their
// drawn length.
func (s State) MaxArrow() float64 {
	var m float64
	for _, a := range s.Arrows {
		if a.Role.Scaled() {
			m = math.Max(m, a.Magnitude)
		}
	}
	return m
}
