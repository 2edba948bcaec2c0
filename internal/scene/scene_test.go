package scene

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/fieldviz/internal/clock"
	"github.com/olivier-w/fieldviz/internal/field"
	"github.com/olivier-w/fieldviz/internal/frame"
	"github.com/olivier-w/fieldviz/internal/geom"
)

func TestAllPresetsBuildAndRender(t *testing.T) {
	for _, c := range Presets() {
		t.Run(c.Name, func(t *testing.T) {
			s, err := Build(c)
			require.NoError(t, err)
			assert.Equal(t, c.Frames, s.Frames())
			assert.NotEmpty(t, s.Title)

			for _, i := range []int{0, s.Frames() / 2, s.Frames() - 1} {
				st, err := s.Generator.Frame(i)
				require.NoError(t, err)
				assert.False(t, st.Empty(), "frame %d is empty", i)
			}
		})
	}
}

func TestPresetNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, n := range Names() {
		assert.False(t, seen[n], n)
		seen[n] = true
	}
	assert.Len(t, seen, 8)
}

func TestPresetsAreFreshCopies(t *testing.T) {
	a, ok := Preset("dc-wire")
	require.True(t, ok)
	a.Grid.Exclude = 99
	b, _ := Preset("dc-wire")
	assert.Equal(t, 0.06, b.Grid.Exclude)
}

func TestStaticChargeGeometry(t *testing.T) {
	c, _ := Preset("static-charge")
	s, err := Build(c)
	require.NoError(t, err)
	st, err := s.Generator.Frame(0)
	require.NoError(t, err)

	assert.Len(t, st.Lines, 48)
	assert.Len(t, st.Arrows, 8*8*8) // no lattice point is within 0.3 of the origin
	for _, l := range st.Lines {
		assert.LessOrEqual(t, l.Len(), 51)
	}
	assert.Equal(t, 20.0, st.View.Elevation)
}

func TestStaticChargeSwingKeepsRateAcrossFrameCounts(t *testing.T) {
	c, _ := Preset("static-charge")
	assert.Equal(t, 60, c.FPS)
	full, err := Build(c)
	require.NoError(t, err)
	short, err := Build(Overrides{Frames: 100}.Apply(c))
	require.NoError(t, err)

	want := 20 + 10*math.Sin(1.5)
	for _, s := range []*Scene{full, short} {
		st, err := s.Generator.Frame(15)
		require.NoError(t, err)
		assert.InDelta(t, want, st.View.Elevation, 1e-9)
	}
}

func TestSwingCyclesWithoutRate(t *testing.T) {
	cam, err := buildCamera(40, &CameraConfig{Elevation: 10, Swing: &SwingConfig{Amplitude: 5, Cycles: 1}})
	require.NoError(t, err)
	assert.InDelta(t, 15, cam.At(10).Elevation, 1e-9)
	assert.InDelta(t, 10, cam.At(20).Elevation, 1e-9)
}

func TestSpinMeasuredShellsHaveDistinctAzimuths(t *testing.T) {
	c, _ := Preset("spin-measured")
	s, err := Build(c)
	require.NoError(t, err)
	st, err := s.Generator.Frame(0)
	require.NoError(t, err)

	var origins []geom.Point3
	for _, a := range st.Arrows {
		if a.Role == frame.FieldArrow {
			origins = append(origins, a.Origin)
		}
	}
	require.Len(t, origins, 2*4*8)

	distinct := 0
	for i, p := range origins {
		seen := false
		for _, q := range origins[:i] {
			if p.Sub(q).Norm() < 1e-9 {
				seen = true
				break
			}
		}
		if !seen {
			distinct++
		}
	}
	// each pole collapses its 8 azimuths; the two middle rings keep all 8
	assert.Equal(t, 2*(2+2*8), distinct)
}

func TestSpinSuperpositionDrawsUncertaintySphere(t *testing.T) {
	c, _ := Preset("spin-superposition")
	s, err := Build(c)
	require.NoError(t, err)
	st, err := s.Generator.Frame(0)
	require.NoError(t, err)

	n := 0
	for _, ci := range st.Circles {
		if ci.Role == frame.ShellCircle {
			n++
			assert.LessOrEqual(t, ci.Radius, 1.5+1e-12)
		}
	}
	assert.Equal(t, 9, n)
}

func TestOscillatingChargeProbe(t *testing.T) {
	c, _ := Preset("oscillating-charge")
	s, err := Build(c)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, s.Duration())

	st, err := s.Generator.Frame(0)
	require.NoError(t, err)
	require.Len(t, st.Probes, 1)
	assert.InDelta(t, 1.44e-9, st.Probes[0].Magnitude, 0.01e-9)
	assert.True(t, st.View.Planar)
}

func TestDCWireLoops(t *testing.T) {
	c, _ := Preset("dc-wire")
	s, err := Build(c)
	require.NoError(t, err)
	st, err := s.Generator.Frame(0)
	require.NoError(t, err)
	assert.Len(t, st.Lines, 15)
	assert.Len(t, st.Arrows, 6*6*5)
	lo, hi := math.Inf(1), 0.0
	for _, a := range st.Arrows {
		assert.InDelta(t, 1, a.Vector.Norm(), 1e-12)
		assert.Zero(t, a.Vector.Z)
		lo, hi = math.Min(lo, a.Magnitude), math.Max(hi, a.Magnitude)
	}
	// strength still falls off as 1/r and sets the drawn scale
	assert.Greater(t, hi/lo, 4.0)
	assert.Equal(t, hi, st.MaxArrow())
}

func TestSuperpositionSeedOverride(t *testing.T) {
	c, _ := Preset("spin-superposition")
	a, err := Build(c)
	require.NoError(t, err)

	seed := uint64(42)
	b, err := Build(Overrides{Seed: &seed}.Apply(c))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.Dipole.Seed, "Apply copies the dipole config")

	fa, err := a.Generator.Frame(3)
	require.NoError(t, err)
	fb, err := b.Generator.Frame(3)
	require.NoError(t, err)
	assert.NotEqual(t, fa.Lines, fb.Lines)
	assert.Len(t, fa.Lines, 50*16)
}

func TestOverridesFramesAndFPS(t *testing.T) {
	c, _ := Preset("wavefront-2d")
	s, err := Build(Overrides{Frames: 10, FPS: 5}.Apply(c))
	require.NoError(t, err)
	assert.Equal(t, 10, s.Frames())
	assert.Equal(t, 200*time.Millisecond, s.FrameInterval())
}

const sceneFile = `
scenes:
  - name: slow-wire
    kind: dc-wire
    frames: 40
    sources:
      - kind: magnetic-wire
        position: [0, 0, 0]
        axis: [0, 0, 1]
        strength: -4
  - name: two-charges
    title: Dipole pair
    frames: 2
    clock:
      mode: linear
      scale: 0.5
    sources:
      - kind: electric-point
        position: [-1, 0, 0]
        strength: 1.0e-9
      - kind: electric-point
        position: [1, 0, 0]
        strength: -1.0e-9
        drift: [0, 0.1, 0]
    grid:
      x: {min: -2, max: 2, n: 5}
      y: {min: -2, max: 2, n: 5}
      z: {min: 0, max: 0, n: 1}
      exclude: 0.2
    camera:
      planar: true
      extent: 2.5
`

func TestParseOverlaysPreset(t *testing.T) {
	configs, err := Parse([]byte(sceneFile))
	require.NoError(t, err)
	require.Len(t, configs, 2)

	wire := configs[0]
	assert.Equal(t, "slow-wire", wire.Name)
	assert.Equal(t, 40, wire.Frames)
	assert.Equal(t, 30, wire.FPS, "kept from the preset")
	require.NotNil(t, wire.Loops)
	assert.Equal(t, -4.0, wire.Sources[0].Strength)

	scenes, err := BuildAll(configs)
	require.NoError(t, err)
	require.Len(t, scenes, 2)

	pair := scenes[1]
	assert.Equal(t, "Dipole pair", pair.Title)
	st, err := pair.Generator.Frame(1)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, st.Sources[1].Position.Y, 1e-12)
	assert.Equal(t, field.ElectricPoint, st.Sources[0].Kind)
	// two lattice points sit on the charges
	assert.Len(t, st.Arrows, 23)
	assert.True(t, st.View.Planar)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("scenes: []"))
	assert.Error(t, err)

	_, err = Parse([]byte("scenes:\n  - kind: no-such-preset\n"))
	assert.ErrorIs(t, err, ErrUnknownScene)

	_, err = Parse([]byte("scenes: [\n"))
	assert.Error(t, err)

	_, err = Build(Config{Name: "bad", Frames: 3, Clock: &ClockConfig{Mode: "linear", Scale: math.Inf(1)}})
	assert.ErrorIs(t, err, clock.ErrInvalidClock)

	configs, err := Parse([]byte("scenes:\n  - name: bad\n    frames: 3\n    sources: [{kind: monopole, position: [0,0,0], strength: 1}]\n"))
	require.NoError(t, err)
	_, err = Build(configs[0])
	assert.ErrorIs(t, err, field.ErrInvalidConfig)

	_, err = Build(Config{Name: "empty"})
	assert.ErrorIs(t, err, clock.ErrInvalidClock)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenes.yml")
	require.NoError(t, os.WriteFile(path, []byte(sceneFile), 0o644))

	configs, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, configs, 2)

	_, err = Load(filepath.Join(dir, "scenes.json"))
	assert.ErrorContains(t, err, "unsupported scene file format")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(Presets())
	require.NoError(t, err)
	configs, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, configs, len(Presets()))
	for i, c := range configs {
		_, err := Build(c)
		require.NoError(t, err, c.Name)
		assert.Equal(t, Presets()[i].Name, c.Name)
	}
}

func TestLookup(t *testing.T) {
	custom := []Config{{Name: "mine", Frames: 1}}
	c, err := Lookup(custom, "mine")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Frames)

	c, err = Lookup(custom, "wavefront-3d")
	require.NoError(t, err)
	assert.Equal(t, 300, c.Frames)

	_, err = Lookup(custom, "nope")
	assert.ErrorIs(t, err, ErrUnknownScene)
}

func TestIsConfigExt(t *testing.T) {
	assert.True(t, IsConfigExt(".yaml"))
	assert.True(t, IsConfigExt(".YML"))
	assert.False(t, IsConfigExt(".json"))
}

func TestWaveProfileOverride(t *testing.T) {
	w, err := buildWave(&WaveConfig{Profile: "planar", K: 5, Extent: 2, N: 3})
	require.NoError(t, err)
	assert.Equal(t, frame.Profile{K: 5, Width: 3}, w.Profile)

	_, err = buildWave(&WaveConfig{Profile: "square", Extent: 2, N: 3})
	assert.ErrorIs(t, err, field.ErrInvalidConfig)
	_, err = buildWave(&WaveConfig{Extent: 0, N: 3})
	assert.ErrorIs(t, err, field.ErrInvalidConfig)
}
