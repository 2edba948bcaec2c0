package frame

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/fieldviz/internal/clock"
	"github.com/olivier-w/fieldviz/internal/field"
	"github.com/olivier-w/fieldviz/internal/geom"
	"github.com/olivier-w/fieldviz/internal/trace"
)

func oscillatingCharge(t *testing.T) Generator {
	t.Helper()
	clk, err := clock.NewSinusoidal(60, 0.5, 2)
	require.NoError(t, err)
	g, err := NewGenerator(clk,
		[]Animated{{Source: field.PointCharge(geom.Point3{}, field.ElectronCharge), Motion: Oscillation{Axis: geom.UnitY}}},
		Sampling{Probes: []geom.Point3{{X: 1}}},
		Camera{Planar: true, Extent: 1},
	)
	require.NoError(t, err)
	return g
}

func TestOscillatingChargeMoves(t *testing.T) {
	g := oscillatingCharge(t)
	for _, i := range []int{0, 7, 22, 59} {
		st, err := g.Frame(i)
		require.NoError(t, err)
		want := 0.5 * math.Sin(4*math.Pi*float64(i)/60)
		assert.InDelta(t, want, st.Sources[0].Position.Y, 1e-12)
		assert.Equal(t, i, st.Index)
	}
	// the generator's own source is never moved
	assert.Equal(t, geom.Point3{}, g.Sources[0].Source.Position)
}

func TestProbeDecomposition(t *testing.T) {
	g := oscillatingCharge(t)
	st, err := g.Frame(0)
	require.NoError(t, err)

	require.Len(t, st.Probes, 1)
	assert.InDelta(t, 1.44e-9, st.Probes[0].Magnitude, 0.01e-9)
	assert.Less(t, st.Probes[0].Vector.X, 0.0)

	roles := map[ArrowRole]Arrow{}
	for _, a := range st.Arrows {
		roles[a.Role] = a
	}
	require.Contains(t, roles, FieldArrow)
	require.Contains(t, roles, ComponentX)
	require.Contains(t, roles, ComponentY)
	sum := roles[ComponentX].Vector.Add(roles[ComponentY].Vector)
	assert.InDelta(t, roles[FieldArrow].Vector.X, sum.X, 1e-24)
	assert.InDelta(t, roles[FieldArrow].Vector.Y, sum.Y, 1e-24)

	require.Len(t, st.Segs, 1)
	assert.Equal(t, st.Sources[0].Position, st.Segs[0].From)
	assert.Equal(t, geom.Point3{X: 1}, st.Segs[0].To)
	assert.True(t, st.Markers[len(st.Markers)-1].Probe)
}

func TestFrameOrderIndependence(t *testing.T) {
	clk, err := clock.NewLinear(30, 0.1)
	require.NoError(t, err)
	g, err := NewGenerator(clk,
		[]Animated{{Source: field.PointCharge(geom.Point3{}, -1), Motion: Drift{Velocity: geom.Vector3{X: 0.2}}}},
		Sampling{
			Grid:  geom.Lattice(geom.Linspace(4, -2, 2), geom.Linspace(4, -2, 2), geom.Linspace(4, -2, 2)),
			Mask:  ExcludeNear(0.3),
			Seeds: trace.SphereSeeds(geom.Point3{}, 2, 3, 4),
			Trace: trace.DefaultParams,
			Dipole: &DipoleSampling{
				Shape: trace.DefaultDipoleShape, Ensemble: 5, Seed: 11, Resample: true,
			},
		},
		Camera{},
	)
	require.NoError(t, err)

	first, err := g.Frame(2)
	require.NoError(t, err)
	_, err = g.Frame(5)
	require.NoError(t, err)
	again, err := g.Frame(2)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other, err := g.Frame(5)
	require.NoError(t, err)
	assert.NotEqual(t, first.Lines, other.Lines)
}

func TestSequenceMatchesSerialFrames(t *testing.T) {
	g := oscillatingCharge(t)
	frames, err := Sequence(context.Background(), g, 4)
	require.NoError(t, err)
	require.Len(t, frames, 60)
	for i, st := range frames {
		want, err := g.Frame(i)
		require.NoError(t, err)
		assert.Equal(t, want, st)
	}
}

func TestSequenceStopsOnCancel(t *testing.T) {
	g := oscillatingCharge(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sequence(ctx, g, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEachReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := Each(context.Background(), 10, 3, func(i int) error {
		if i == 4 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "frame 4")
}

func TestFrameOutOfRange(t *testing.T) {
	g := oscillatingCharge(t)
	for _, i := range []int{-1, 60, 1000} {
		_, err := g.Frame(i)
		assert.ErrorIs(t, err, ErrFrameOutOfRange)
	}
}

func TestExcludeNearMasksSources(t *testing.T) {
	clk, err := clock.NewFixed(1, 0)
	require.NoError(t, err)
	grid := geom.Lattice(geom.Linspace(6, -1.8, 1.8), geom.Linspace(6, -1.8, 1.8), geom.Linspace(5, -2, 2))
	st, err := ComputeFrame(0, clk, Static(field.Wire(geom.Point3{}, 10)), Sampling{Grid: grid, Mask: ExcludeNear(0.6)})
	require.NoError(t, err)

	require.NotEmpty(t, st.Arrows)
	assert.Less(t, len(st.Arrows), len(grid))
	for _, a := range st.Arrows {
		assert.GreaterOrEqual(t, math.Hypot(a.Origin.X, a.Origin.Y), 0.6)
	}
}

func TestSeedsFollowMovingCharge(t *testing.T) {
	clk, err := clock.NewLinear(3, 1)
	require.NoError(t, err)
	sources := []Animated{{Source: field.PointCharge(geom.Point3{}, -1), Motion: Drift{Velocity: geom.UnitX}}}
	s := Sampling{Seeds: []geom.Point3{{Y: 2}}, Trace: trace.DefaultParams}

	st, err := ComputeFrame(2, clk, sources, s)
	require.NoError(t, err)
	require.Len(t, st.Lines, 1)
	assert.Equal(t, geom.Point3{X: 2, Y: 2}, st.Lines[0].Points[0])
	assert.Less(t, st.Lines[0].End().Dist(geom.Point3{X: 2}), 2.0)
}

func TestLoopsAroundWire(t *testing.T) {
	clk, err := clock.NewFixed(1, 0)
	require.NoError(t, err)
	loops := &LoopSampling{Heights: []float64{-1.5, 0, 1.5}, Radii: []float64{0.5, 1}, Samples: 40}
	st, err := ComputeFrame(0, clk, Static(field.Wire(geom.Point3{}, 10)), Sampling{Loops: loops})
	require.NoError(t, err)
	assert.Len(t, st.Lines, 6)
	assert.Len(t, st.Circles, 6)
	for _, c := range st.Circles {
		assert.Equal(t, LoopCircle, c.Role)
	}
}

func TestFixedDipoleHasSpinAndTicks(t *testing.T) {
	clk, err := clock.NewFixed(1, 0)
	require.NoError(t, err)
	d := &DipoleSampling{Axis: geom.UnitZ, Shape: trace.DefaultDipoleShape, Spin: 1, Tick: 0.2}
	st, err := ComputeFrame(0, clk, nil, Sampling{Dipole: d})
	require.NoError(t, err)

	assert.Len(t, st.Lines, 16)
	var spins, ticks int
	for _, a := range st.Arrows {
		switch a.Role {
		case SpinArrow:
			spins++
			assert.Equal(t, geom.UnitZ, a.Vector)
		case TickArrow:
			ticks++
			assert.InDelta(t, 0.2, a.Vector.Norm(), 1e-12)
		}
	}
	assert.Equal(t, 1, spins)
	assert.Equal(t, 16, ticks)
	assert.Zero(t, st.MaxArrow(), "spin and tick arrows are not scaled")
}

func TestEnsembleWithoutResampleIsStable(t *testing.T) {
	clk, err := clock.NewLinear(10, 1)
	require.NoError(t, err)
	s := Sampling{Dipole: &DipoleSampling{Shape: trace.DefaultDipoleShape, Ensemble: 3, Seed: 5}}
	a, err := ComputeFrame(1, clk, nil, s)
	require.NoError(t, err)
	b, err := ComputeFrame(8, clk, nil, s)
	require.NoError(t, err)
	assert.Equal(t, a.Lines, b.Lines)
	assert.Len(t, a.Lines, 48)
}

func TestDipoleSphereOutline(t *testing.T) {
	clk, err := clock.NewFixed(1, 0)
	require.NoError(t, err)
	d := &DipoleSampling{Shape: trace.DefaultDipoleShape, Ensemble: 2, Seed: 1, Sphere: 1.5}
	st, err := ComputeFrame(0, clk, nil, Sampling{Dipole: d})
	require.NoError(t, err)

	require.Len(t, st.Circles, 9)
	for _, c := range st.Circles {
		assert.Equal(t, ShellCircle, c.Role)
		// every ring lies on the sphere
		rim := math.Hypot(c.Radius, c.Center.Z)
		assert.InDelta(t, 1.5, rim, 1e-12)
	}
	assert.InDelta(t, 1.5, st.Circles[2].Radius, 1e-12) // equator

	d.Sphere = 0
	st, err = ComputeFrame(0, clk, nil, Sampling{Dipole: d})
	require.NoError(t, err)
	assert.Empty(t, st.Circles)
}

func TestCameraAt(t *testing.T) {
	spin, err := clock.NewLinear(360, 2)
	require.NoError(t, err)
	swing, err := clock.NewSinusoidal(360, 10, 1)
	require.NoError(t, err)
	cam := Camera{Elevation: 20, Spin: &spin, Swing: &swing, Extent: 3}

	v := cam.At(0)
	assert.Equal(t, 20.0, v.Elevation)
	assert.Equal(t, 0.0, v.Azimuth)
	assert.InDelta(t, 30, cam.At(90).Elevation, 1e-9)
	assert.InDelta(t, 20, cam.At(190).Azimuth, 1e-9)
	assert.Equal(t, 3.0, v.Extent)
}

func TestNewGeneratorRejectsBadParts(t *testing.T) {
	clk, err := clock.NewFixed(1, 0)
	require.NoError(t, err)

	_, err = NewGenerator(clk, Static(field.PointCharge(geom.Point3{}, math.NaN())), Sampling{}, Camera{})
	assert.ErrorIs(t, err, field.ErrInvalidConfig)

	_, err = NewGenerator(clk, nil, Sampling{Seeds: []geom.Point3{{X: 1}}, Trace: trace.Params{StepSize: 0.1}}, Camera{})
	assert.ErrorIs(t, err, trace.ErrInvalidParams)

	_, err = NewGenerator(clk, nil, Sampling{Dipole: &DipoleSampling{}}, Camera{})
	assert.ErrorIs(t, err, field.ErrInvalidConfig)

	_, err = NewGenerator(clk, nil, Sampling{Dipole: &DipoleSampling{Shape: trace.DefaultDipoleShape, Sphere: -1}}, Camera{})
	assert.ErrorIs(t, err, field.ErrInvalidConfig)

	_, err = NewGenerator(clk, nil, Sampling{Loops: &LoopSampling{Radii: []float64{0}}}, Camera{})
	assert.ErrorIs(t, err, field.ErrInvalidConfig)

	_, err = NewGenerator(clock.Clock{}, nil, Sampling{}, Camera{})
	assert.ErrorIs(t, err, clock.ErrInvalidClock)
}
