// Package trace approximates field lines, either by stepping along the
// normalized field of an evaluator or from closed-form curves for dipoles and
// straight conductors.
package trace

import (
	"fmt"
	"math"

	"github.com/olivier-w/fieldviz/internal/field"
	"github.com/olivier-w/fieldviz/internal/geom"
)

// ErrInvalidParams reports tracing parameters rejected by NewParams.
var ErrInvalidParams = fmt.Errorf("%w: trace parameters", field.ErrInvalidConfig)

// Params controls explicit Euler integration of a field line.
type Params struct {
	StepSize  float64
	MaxSteps  int
	MinRadius float64
}

// DefaultParams matches the classic point-charge plot: 50 steps of 0.05
// stopping 0.2 from the charge.
var DefaultParams = Params{StepSize: 0.05, MaxSteps: 50, MinRadius: 0.2}

// NewParams validates and returns tracing parameters.
func NewParams(stepSize float64, maxSteps int, minRadius float64) (Params, error) {
	p := Params{StepSize: stepSize, MaxSteps: maxSteps, MinRadius: minRadius}
	return p, p.Validate()
}

func (p Params) Validate() error {
	switch {
	case !(p.StepSize > 0) || math.IsInf(p.StepSize, 0):
		return fmt.Errorf("%w: step size %v must be positive", ErrInvalidParams, p.StepSize)
	case p.MaxSteps <= 0:
		return fmt.Errorf("%w: max steps %d must be positive", ErrInvalidParams, p.MaxSteps)
	case !(p.MinRadius > 0) || math.IsInf(p.MinRadius, 0):
		return fmt.Errorf("%w: min radius %v must be positive", ErrInvalidParams, p.MinRadius)
	}
	return nil
}

// FieldLine is an ordered polyline. It is append-only while being built and
// must be treated as read-only afterwards.
type FieldLine struct {
	Points []geom.Point3
}

func (l FieldLine) Len() int { return len(l.Points) }

// End returns the last point, or the zero point for an empty line.
func (l FieldLine) End() geom.Point3 {
	if len(l.Points) == 0 {
		return geom.Point3{}
	}
	return l.Points[len(l.Points)-1]
}

// Length sums the segment lengths.
func (l FieldLine) Length() float64 {
	var total float64
	for i := 1; i < len(l.Points); i++ {
		total += l.Points[i].Dist(l.Points[i-1])
	}
	return total
}

// Trace follows the field of src from start. Params are assumed valid; use
// NewParams at configuration time.
func Trace(start geom.Point3, src field.Source, p Params) FieldLine {
	return TraceWith(start, field.For(src), p)
}

// TraceWith follows ev from start with fixed steps of p.StepSize along the
// unit field direction. It stops after p.MaxSteps steps, when the line comes
// within p.MinRadius of the source, or at a point where the field vanishes.
// The returned line holds at most p.MaxSteps+1 points.
func TraceWith(start geom.Point3, ev field.Evaluator, p Params) FieldLine {
	points := make([]geom.Point3, 1, max(p.MaxSteps, 0)+1)
	points[0] = start
	cur := start
	for range p.MaxSteps {
		if ev.Distance(cur) < p.MinRadius {
			break
		}
		v, mag := ev.Evaluate(cur)
		if mag == 0 {
			break
		}
		dir := v.Unit()
		if dir.IsZero() {
			break
		}
		cur = cur.Add(dir.Scale(p.StepSize))
		points = append(points, cur)
	}
	return FieldLine{Points: points}
}

// TraceAll traces one line per seed.
func TraceAll(seeds []geom.Point3, src field.Source, p Params) []FieldLine {
	ev := field.For(src)
	lines := make([]FieldLine, len(seeds))
	for i, s := range seeds {
		lines[i] = TraceWith(s, ev, p)
	}
	return lines
}

// SphereSeeds places nTheta×nPhi seeds on a sphere, with inclusive spacing in
// polar angle [0, π] and azimuth [0, 2π].
func SphereSeeds(center geom.Point3, radius float64, nTheta, nPhi int) []geom.Point3 {
	thetas := geom.Linspace(nTheta, 0, math.Pi)
	phis := geom.Linspace(nPhi, 0, 2*math.Pi)
	seeds := make([]geom.Point3, 0, len(thetas)*len(phis))
	for _, theta := range thetas {
		for _, phi := range phis {
			seeds = append(seeds, geom.Spherical(center, radius, theta, phi))
		}
	}
	return seeds
}
