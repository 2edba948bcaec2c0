package frame

import (
	"math"

	"github.com/olivier-w/fieldviz/internal/geom"
)

// Profile is a damped oscillation behind a light-cone front:
//
//	a(r) = sin(K·π·(r−R))·exp(−(r−R)²/Width)·cos(Modulation·π·r)
//
// where R is the front radius. A zero Modulation drops the cosine factor.
type Profile struct {
	K          float64
	Width      float64
	Modulation float64
}

var (
	SnapshotProfile  = Profile{K: 2, Width: 2}
	PlanarProfile    = Profile{K: 3, Width: 3}
	ModulatedProfile = Profile{K: 2, Width: 4, Modulation: 0.5}
)

// Amplitude returns the profile at distance r for a front at radius front.
// Points outside the cone, or any point before the front has left the
// source, are zero.
func (p Profile) Amplitude(r, front float64) float64 {
	if front <= 0 || r > front {
		return 0
	}
	d := r - front
	w := p.Width
	if w <= 0 {
		w = 1
	}
	a := math.Sin(p.K*math.Pi*d) * math.Exp(-d*d/w)
	if p.Modulation != 0 {
		a *= math.Cos(p.Modulation * math.Pi * r)
	}
	return a
}

// Wavefront samples a radiating disturbance over a plane grid through
// Center at z = Center.Z.
type Wavefront struct {
	Center  geom.Point3
	Xs, Ys  []float64
	Speed   float64 // wave speed; 0 means 1
	Profile Profile
	Rings   bool // static circles at integer radii inside the front
	Guides  int  // radial guide lines from the center to the front
}

func (w *Wavefront) speed() float64 {
	if w.Speed > 0 {
		return w.Speed
	}
	return 1
}

// sample fills the scalar grid and helper geometry for time t.
func (w *Wavefront) sample(st *State, t float64) {
	front := w.speed() * t
	g := &ScalarGrid{
		Xs:     w.Xs,
		Ys:     w.Ys,
		Values: make([]float64, len(w.Xs)*len(w.Ys)),
	}
	for iy, y := range w.Ys {
		for ix, x := range w.Xs {
			r := math.Hypot(x-w.Center.X, y-w.Center.Y)
			g.Values[iy*len(w.Xs)+ix] = w.Profile.Amplitude(r, front)
		}
	}
	st.Scalar = g
	if front <= 0 {
		return
	}

	st.Circles = append(st.Circles, Circle{Center: w.Center, Normal: geom.UnitZ, Radius: front, Role: FrontCircle})
	if w.Rings {
		for r := 1.0; r < front; r++ {
			st.Circles = append(st.Circles, Circle{Center: w.Center, Normal: geom.UnitZ, Radius: r, Role: RingCircle})
		}
	}
	for _, a := range geom.LinspaceOpen(w.Guides, 0, 2*math.Pi) {
		s, c := math.Sincos(a)
		st.Segs = append(st.Segs, Segment{
			From: w.Center,
			To:   w.Center.Add(geom.Vector3{X: front * c, Y: front * s}),
		})
	}
}
