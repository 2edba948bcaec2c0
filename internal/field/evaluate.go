package field

import (
	"math"

	"github.com/olivier-w/fieldviz/internal/geom"
)

// Evaluator computes the field of one source at arbitrary points.
type Evaluator interface {
	// Evaluate returns the field vector at p and its magnitude.
	Evaluate(p geom.Point3) (geom.Vector3, float64)
	// Distance is the distance from p to the source the way the formula
	// measures it (perpendicular distance for a wire).
	Distance(p geom.Point3) float64
}

// Sample is a field vector paired with the point it was evaluated at.
type Sample struct {
	Point     geom.Point3
	Vector    geom.Vector3
	Magnitude float64
}

// For returns the evaluator matching s.Kind.
func For(s Source) Evaluator {
	switch s.Kind {
	case MagneticWire:
		return wire{pos: s.Position, axis: unitOr(s.Axis, geom.UnitZ), current: s.Strength}
	case MagneticDipole:
		return dipole{pos: s.Position, axis: unitOr(s.Axis, geom.UnitZ), moment: s.Strength}
	default:
		return pointCharge{pos: s.Position, q: s.Strength}
	}
}

// Evaluate is shorthand for For(s).Evaluate(p).
func Evaluate(p geom.Point3, s Source) (geom.Vector3, float64) {
	return For(s).Evaluate(p)
}

// SampleAt evaluates s at p and keeps the point with the result.
func SampleAt(p geom.Point3, s Source) Sample {
	v, m := Evaluate(p, s)
	return Sample{Point: p, Vector: v, Magnitude: m}
}

// Superpose sums the fields of all sources at p.
func Superpose(p geom.Point3, sources ...Source) Sample {
	var sum geom.Vector3
	for _, s := range sources {
		v, _ := Evaluate(p, s)
		sum = sum.Add(v)
	}
	sum, mag := finite(sum)
	return Sample{Point: p, Vector: sum, Magnitude: mag}
}

// Distance is shorthand for For(s).Distance(p).
func Distance(p geom.Point3, s Source) float64 {
	return For(s).Distance(p)
}

type pointCharge struct {
	pos geom.Point3
	q   float64
}

func (c pointCharge) Distance(p geom.Point3) float64 {
	return p.Dist(c.pos)
}

func (c pointCharge) Evaluate(p geom.Point3) (geom.Vector3, float64) {
	d := p.Sub(c.pos)
	r := d.Norm()
	if r < Epsilon || c.q == 0 {
		return geom.Vector3{}, 0
	}
	mag := K * math.Abs(c.q) / (r * r)
	dir := d.Scale(1 / r)
	if c.q < 0 {
		dir = dir.Scale(-1)
	}
	return scaled(dir, mag)
}

type wire struct {
	pos     geom.Point3
	axis    geom.Vector3
	current float64
}

// radial returns the component of p - pos perpendicular to the axis.
func (w wire) radial(p geom.Point3) geom.Vector3 {
	d := p.Sub(w.pos)
	return d.Sub(w.axis.Scale(d.Dot(w.axis)))
}

func (w wire) Distance(p geom.Point3) float64 {
	return w.radial(p).Norm()
}

func (w wire) Evaluate(p geom.Point3) (geom.Vector3, float64) {
	rv := w.radial(p)
	r := rv.Norm()
	if r < Epsilon || w.current == 0 {
		return geom.Vector3{}, 0
	}
	mag := Mu0 * math.Abs(w.current) / (2 * math.Pi * r)
	dir := w.axis.Cross(rv.Scale(1 / r))
	if w.current < 0 {
		dir = dir.Scale(-1)
	}
	return scaled(dir, mag)
}

type dipole struct {
	pos    geom.Point3
	axis   geom.Vector3
	moment float64
}

func (d dipole) Distance(p geom.Point3) float64 {
	return p.Dist(d.pos)
}

// Evaluate uses the point-dipole form B = μ₀/4π · (3(m·r̂)r̂ − m) / r³.
func (d dipole) Evaluate(p geom.Point3) (geom.Vector3, float64) {
	rv := p.Sub(d.pos)
	r := rv.Norm()
	if r < Epsilon || d.moment == 0 {
		return geom.Vector3{}, 0
	}
	rhat := rv.Scale(1 / r)
	m := d.axis.Scale(d.moment)
	b := rhat.Scale(3 * m.Dot(rhat)).Sub(m).Scale(Mu0 / (4 * math.Pi) / (r * r * r))
	return finite(b)
}

// scaled multiplies a unit direction by mag, clamping overflow.
func scaled(dir geom.Vector3, mag float64) (geom.Vector3, float64) {
	if math.IsInf(mag, 0) || math.IsNaN(mag) {
		mag = MaxMagnitude
	}
	return finite(dir.Scale(mag))
}

// finite clamps non-finite components so callers never see NaN or Inf.
func finite(v geom.Vector3) (geom.Vector3, float64) {
	if v.IsFinite() {
		n := v.Norm()
		if !math.IsInf(n, 0) {
			return v, n
		}
		// components are finite but the norm overflowed
		u := v.Scale(1 / math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))).Unit()
		return u.Scale(MaxMagnitude), MaxMagnitude
	}
	c := geom.Vector3{X: clampComponent(v.X), Y: clampComponent(v.Y), Z: clampComponent(v.Z)}
	if c.IsZero() {
		return c, 0
	}
	return c.Unit().Scale(MaxMagnitude), MaxMagnitude
}

func clampComponent(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case math.IsInf(f, 1):
		return 1
	case math.IsInf(f, -1):
		return -1
	default:
		return 0
	}
}

func unitOr(v, fallback geom.Vector3) geom.Vector3 {
	if u := v.Unit(); !u.IsZero() {
		return u
	}
	return fallback
}
