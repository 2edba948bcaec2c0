// Package geom holds the small value types shared by the field, trace and
// frame packages.
package geom

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Point3 is a position in space. Planar scenes keep Z at 0.
type Point3 struct {
	X, Y, Z float64
}

// Vector3 is a displacement or a field sample.
type Vector3 struct {
	X, Y, Z float64
}

var (
	UnitX = Vector3{X: 1}
	UnitY = Vector3{Y: 1}
	UnitZ = Vector3{Z: 1}
)

func (p Point3) Add(v Vector3) Point3 {
	return Point3{p.X + v.X, p.Y + v.Y, p.Z + v.Z}
}

// Sub returns the vector pointing from q to p.
func (p Point3) Sub(q Point3) Vector3 {
	return Vector3{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

func (p Point3) Dist(q Point3) float64 {
	return p.Sub(q).Norm()
}

// Vec returns the position vector of p relative to the origin.
func (p Point3) Vec() Vector3 {
	return Vector3{p.X, p.Y, p.Z}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) NormSq() float64 {
	return v.Dot(v)
}

func (v Vector3) Norm() float64 {
	return math.Sqrt(v.NormSq())
}

// Unit returns v scaled to length 1, or the zero vector when v is zero.
func (v Vector3) Unit() Vector3 {
	n := v.Norm()
	if n == 0 {
		return Vector3{}
	}
	inv := 1 / n
	return Vector3{v.X * inv, v.Y * inv, v.Z * inv}
}

func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vector3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Spherical returns the point at radius r, azimuth phi and polar angle theta
// around center.
func Spherical(center Point3, r, theta, phi float64) Point3 {
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	return center.Add(Vector3{r * st * cp, r * st * sp, r * ct})
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(n int, lo, hi float64) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// LinspaceOpen is Linspace without the end point.
func LinspaceOpen(n int, lo, hi float64) []float64 {
	if n <= 0 {
		return nil
	}
	return Linspace(n+1, lo, hi)[:n]
}

// Lattice returns every (x, y, z) combination of the given axes, x varying
// fastest.
func Lattice(xs, ys, zs []float64) []Point3 {
	out := make([]Point3, 0, len(xs)*len(ys)*len(zs))
	for _, z := range zs {
		for _, y := range ys {
			for _, x := range xs {
				out = append(out, Point3{x, y, z})
			}
		}
	}
	return out
}
