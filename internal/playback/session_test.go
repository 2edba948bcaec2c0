package playback

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/fieldviz/internal/render"
	"github.com/olivier-w/fieldviz/internal/scene"
)

func newTestSession(t *testing.T, frames, fps int) *Session {
	t.Helper()
	c, ok := scene.Preset("oscillating-charge")
	require.True(t, ok)
	sc, err := scene.Build(scene.Overrides{Frames: frames, FPS: fps}.Apply(c))
	require.NoError(t, err)
	return NewSession(sc, render.NewTerminal(render.ASCII, render.ColorOff, fps), 20, 6)
}

func TestAdvanceMapsTimeToFrames(t *testing.T) {
	s := newTestSession(t, 10, 10)
	assert.Equal(t, time.Second, s.Duration())
	assert.Equal(t, 0, s.Index())

	assert.False(t, s.Advance(250*time.Millisecond))
	assert.Equal(t, 2, s.Index())

	s.CycleSpeed()
	assert.Equal(t, Speed2x, s.Speed())
	assert.False(t, s.Advance(100*time.Millisecond))
	assert.Equal(t, 450*time.Millisecond, s.Position())
	assert.Equal(t, 4, s.Index())

	assert.True(t, s.Advance(time.Second))
	assert.Equal(t, 9, s.Index())
}

func TestStepAndSeek(t *testing.T) {
	s := newTestSession(t, 10, 10)
	s.Step(3)
	assert.Equal(t, 3, s.Index())
	assert.Equal(t, 300*time.Millisecond, s.Position())

	s.Step(-100)
	assert.Equal(t, 0, s.Index())

	s.Seek(time.Hour)
	assert.Equal(t, 9, s.Index())
	s.Seek(-time.Second)
	assert.Equal(t, time.Duration(0), s.Position())

	s.Step(5)
	s.Rewind()
	assert.Equal(t, 0, s.Index())
}

func TestViewRendersCurrentFrame(t *testing.T) {
	s := newTestSession(t, 10, 10)
	s.Step(4)
	out, st, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, 4, st.Index)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.Len(t, lines[0], 20)

	s.Resize(12, 3)
	out, _, err = s.View()
	require.NoError(t, err)
	assert.Len(t, strings.Split(out, "\n"), 3)
}

func TestPrefetchFillsCache(t *testing.T) {
	s := newTestSession(t, 10, 10)
	_, err := s.Frame()
	require.NoError(t, err)
	assert.Equal(t, 1, s.Cached())

	require.NoError(t, s.Prefetch(context.Background(), 3, nil))
	assert.Equal(t, 10, s.Cached())

	s.Step(7)
	st, err := s.Frame()
	require.NoError(t, err)
	want, err := s.Scene().Generator.Frame(7)
	require.NoError(t, err)
	assert.Equal(t, want, st)
}

func TestPrefetchReportsProgress(t *testing.T) {
	s := newTestSession(t, 10, 10)
	var mu sync.Mutex
	var calls, last int
	err := s.Prefetch(context.Background(), 4, func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		last = max(last, done)
		assert.Equal(t, 10, total)
	})
	require.NoError(t, err)
	assert.Equal(t, 10, calls)
	assert.Equal(t, 10, last)
}

func TestPrefetchCancelled(t *testing.T) {
	s := newTestSession(t, 10, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Prefetch(ctx, 2, nil), context.Canceled)
	assert.Equal(t, 0, s.Cached())
}

func TestClosedSession(t *testing.T) {
	s := newTestSession(t, 10, 10)
	s.Close()
	_, err := s.Frame()
	assert.Error(t, err)
	_, _, err = s.View()
	assert.Error(t, err)
}

func TestTickInterval(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, newTestSession(t, 10, 10).TickInterval())
	assert.Equal(t, minTick, newTestSession(t, 10, 240).TickInterval())
}

func TestSpeedModes(t *testing.T) {
	assert.Equal(t, Speed2x, Speed1x.Next())
	assert.Equal(t, SpeedHalf, Speed2x.Next())
	assert.Equal(t, Speed1x, SpeedHalf.Next())
	assert.Equal(t, "", Speed1x.Label())
	assert.Equal(t, "[2x]", Speed2x.Label())
	assert.Equal(t, "[0.5x]", SpeedHalf.Label())
	assert.Equal(t, 0.5, SpeedHalf.Factor())
}
