package trace

import (
	"math"

	"github.com/olivier-w/fieldviz/internal/geom"
)

// DipoleLine returns the classical dipole field line r(θ) = r0·sin²θ for θ in
// [0, π], in the meridian plane at the given azimuth, rotated so that the
// local +Z follows axis.
func DipoleLine(center geom.Point3, axis geom.Vector3, r0, azimuth float64, samples int) FieldLine {
	if samples < 2 {
		samples = 2
	}
	sa, ca := math.Sincos(azimuth)
	points := make([]geom.Point3, 0, samples)
	for _, theta := range geom.Linspace(samples, 0, math.Pi) {
		st, ct := math.Sincos(theta)
		r := r0 * st * st
		local := geom.Vector3{X: r * st * ca, Y: r * st * sa, Z: r * ct}
		points = append(points, center.Add(geom.AlignZ(local, axis)))
	}
	return FieldLine{Points: points}
}

// DipoleShape describes one family of dipole lines: a shell per radius and
// LinesPerShell evenly spaced azimuths on each shell.
type DipoleShape struct {
	Radii         []float64
	LinesPerShell int
	Samples       int
}

// DefaultDipoleShape is two shells of eight lines.
var DefaultDipoleShape = DipoleShape{Radii: []float64{1.5, 2.5}, LinesPerShell: 8, Samples: 24}

// DipoleFamily returns every line of shape for a dipole at center along axis.
func DipoleFamily(center geom.Point3, axis geom.Vector3, shape DipoleShape) []FieldLine {
	lines := make([]FieldLine, 0, len(shape.Radii)*shape.LinesPerShell)
	for _, r0 := range shape.Radii {
		for _, az := range geom.LinspaceOpen(shape.LinesPerShell, 0, 2*math.Pi) {
			lines = append(lines, DipoleLine(center, axis, r0, az, shape.Samples))
		}
	}
	return lines
}

// WireLoop returns the closed circular field line of a straight conductor
// through center along axis. Positive current runs the loop counter-clockwise
// seen from the tip of axis. The first point is repeated at the end.
func WireLoop(center geom.Point3, axis geom.Vector3, radius, current float64, samples int) FieldLine {
	if samples < 3 {
		samples = 3
	}
	sign := 1.0
	if current < 0 {
		sign = -1
	}
	points := make([]geom.Point3, 0, samples+1)
	for _, a := range geom.LinspaceOpen(samples, 0, 2*math.Pi) {
		s, c := math.Sincos(sign * a)
		local := geom.Vector3{X: radius * c, Y: radius * s}
		points = append(points, center.Add(geom.AlignZ(local, axis)))
	}
	points = append(points, points[0])
	return FieldLine{Points: points}
}

// Rand is the random source behind orientation ensembles. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// RandomAxis draws azimuth uniformly in [0, 2π) and polar angle uniformly in
// [0, π), then returns the matching unit vector.
func RandomAxis(rng Rand) geom.Vector3 {
	azimuth := rng.Float64() * 2 * math.Pi
	polar := rng.Float64() * math.Pi
	return geom.Spherical(geom.Point3{}, 1, polar, azimuth).Vec()
}

// Orientation is one member of a random dipole ensemble.
type Orientation struct {
	Axis  geom.Vector3
	Lines []FieldLine
}

// Superposition draws n random dipole axes from rng and builds the lines of
// each. Identical seeds give identical ensembles.
func Superposition(center geom.Point3, n int, rng Rand, shape DipoleShape) []Orientation {
	out := make([]Orientation, 0, max(n, 0))
	for range n {
		axis := RandomAxis(rng)
		out = append(out, Orientation{Axis: axis, Lines: DipoleFamily(center, axis, shape)})
	}
	return out
}
