package frame

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/olivier-w/fieldviz/internal/clock"
	"github.com/olivier-w/fieldviz/internal/field"
	"github.com/olivier-w/fieldviz/internal/geom"
	"github.com/olivier-w/fieldviz/internal/trace"
)

// ComputeFrame builds the state of frame index. It reads its arguments only;
// the same index always produces the same State.
func ComputeFrame(index int, clk clock.Clock, sources []Animated, s Sampling) (State, error) {
	if !clk.Contains(index) {
		return State{}, fmt.Errorf("%w: %d not in [0, %d)", ErrFrameOutOfRange, index, clk.Frames())
	}
	t := clk.Time(index)
	st := State{Index: index, T: t}

	st.Sources = make([]field.Source, len(sources))
	for i, a := range sources {
		src := a.At(t)
		st.Sources[i] = src
		st.Markers = append(st.Markers, Marker{Position: src.Position, Kind: src.Kind, Strength: src.Strength})
	}

	sampleProbes(&st, s.Probes)
	sampleGrid(&st, s)
	traceSeeds(&st, s.Seeds, s.Trace)
	if s.Loops != nil {
		drawLoops(&st, s.Loops)
	}
	if s.Dipole != nil {
		drawDipoles(&st, s.Dipole, index)
	}
	if s.Wave != nil {
		s.Wave.sample(&st, t)
	}
	return st, nil
}

func sampleProbes(st *State, probes []geom.Point3) {
	for _, p := range probes {
		sample := field.Superpose(p, st.Sources...)
		st.Probes = append(st.Probes, sample)
		st.Markers = append(st.Markers, Marker{Position: p, Probe: true})

		v := sample.Vector
		st.Arrows = append(st.Arrows,
			Arrow{Origin: p, Vector: v, Magnitude: sample.Magnitude, Role: FieldArrow},
			Arrow{Origin: p, Vector: geom.Vector3{X: v.X}, Magnitude: math.Abs(v.X), Role: ComponentX},
			Arrow{Origin: p, Vector: geom.Vector3{Y: v.Y}, Magnitude: math.Abs(v.Y), Role: ComponentY},
		)
		if v.Z != 0 {
			st.Arrows = append(st.Arrows, Arrow{Origin: p, Vector: geom.Vector3{Z: v.Z}, Magnitude: math.Abs(v.Z), Role: ComponentZ})
		}
		for _, src := range st.Sources {
			if src.Kind == field.ElectricPoint {
				st.Segs = append(st.Segs, Segment{From: src.Position, To: p})
			}
		}
	}
}

func sampleGrid(st *State, s Sampling) {
	for _, p := range s.Grid {
		if s.Mask != nil && !s.Mask(p, st.Sources) {
			continue
		}
		sample := field.Superpose(p, st.Sources...)
		if sample.Magnitude == 0 {
			continue
		}
		v := sample.Vector
		if s.Normalize {
			v = v.Unit()
		}
		st.Arrows = append(st.Arrows, Arrow{Origin: p, Vector: v, Magnitude: sample.Magnitude, Role: FieldArrow})
	}
}

func traceSeeds(st *State, seeds []geom.Point3, p trace.Params) {
	if len(seeds) == 0 {
		return
	}
	for i, src := range st.Sources {
		if src.Kind != field.ElectricPoint {
			continue
		}
		ev := field.For(src)
		for _, off := range seeds {
			line := trace.TraceWith(src.Position.Add(off.Vec()), ev, p)
			st.Lines = append(st.Lines, Polyline{FieldLine: line, Group: i})
		}
	}
}

func drawLoops(st *State, l *LoopSampling) {
	for i, src := range st.Sources {
		if src.Kind != field.MagneticWire {
			continue
		}
		axis := src.Axis.Unit()
		for _, h := range l.Heights {
			center := src.Position.Add(axis.Scale(h))
			for _, r := range l.Radii {
				loop := trace.WireLoop(center, axis, r, src.Strength, l.Samples)
				st.Lines = append(st.Lines, Polyline{FieldLine: loop, Group: i})
				st.Circles = append(st.Circles, Circle{Center: center, Normal: axis, Radius: r, Role: LoopCircle})
			}
		}
	}
}

// drawDipoles adds the parametric dipole lines. Ensembles draw from a PCG
// stream keyed by (Seed, index) when resampling, so any frame can be rebuilt
// on its own.
func drawDipoles(st *State, d *DipoleSampling, index int) {
	if d.Sphere > 0 {
		drawSphere(st, d.Center, d.Sphere)
	}
	if d.Ensemble > 0 {
		stream := uint64(0)
		if d.Resample {
			stream = uint64(index)
		}
		rng := rand.New(rand.NewPCG(d.Seed, stream))
		for k, o := range trace.Superposition(d.Center, d.Ensemble, rng, d.Shape) {
			for _, l := range o.Lines {
				st.Lines = append(st.Lines, Polyline{FieldLine: l, Group: k})
			}
			if d.Spin > 0 {
				st.Arrows = append(st.Arrows, Arrow{Origin: d.Center, Vector: o.Axis.Scale(d.Spin), Magnitude: d.Spin, Role: SpinArrow})
			}
		}
		return
	}

	axis := d.Axis.Unit()
	if axis.IsZero() {
		axis = geom.UnitZ
	}
	for _, l := range trace.DipoleFamily(d.Center, axis, d.Shape) {
		st.Lines = append(st.Lines, Polyline{FieldLine: l})
		if d.Tick > 0 && l.Len() > 2 {
			mid := l.Len() / 2
			dir := l.Points[mid+1].Sub(l.Points[mid-1]).Unit()
			if !dir.IsZero() {
				st.Arrows = append(st.Arrows, Arrow{Origin: l.Points[mid], Vector: dir.Scale(d.Tick), Magnitude: d.Tick, Role: TickArrow})
			}
		}
	}
	if d.Spin > 0 {
		st.Arrows = append(st.Arrows, Arrow{Origin: d.Center, Vector: axis.Scale(d.Spin), Magnitude: d.Spin, Role: SpinArrow})
	}
}

// drawSphere outlines a sphere with five latitude rings and four meridians.
func drawSphere(st *State, center geom.Point3, r float64) {
	for k := 1; k <= 5; k++ {
		v := float64(k) * math.Pi / 6
		st.Circles = append(st.Circles, Circle{
			Center: center.Add(geom.UnitZ.Scale(r * math.Cos(v))),
			Normal: geom.UnitZ,
			Radius: r * math.Sin(v),
			Role:   ShellCircle,
		})
	}
	for k := range 4 {
		a := float64(k) * math.Pi / 4
		st.Circles = append(st.Circles, Circle{
			Center: center,
			Normal: geom.Vector3{X: math.Cos(a), Y: math.Sin(a)},
			Radius: r,
			Role:   ShellCircle,
		})
	}
}
