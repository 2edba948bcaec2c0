package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/fieldviz/internal/export"
	"github.com/olivier-w/fieldviz/internal/queue"
	"github.com/olivier-w/fieldviz/internal/render"
	"github.com/olivier-w/fieldviz/internal/scene"
)

func testQueue(t *testing.T, names ...string) *queue.Queue {
	t.Helper()
	var scenes []*scene.Scene
	for _, name := range names {
		c, ok := scene.Preset(name)
		require.True(t, ok, name)
		s, err := scene.Build(scene.Overrides{Frames: 10, FPS: 10}.Apply(c))
		require.NoError(t, err)
		scenes = append(scenes, s)
	}
	return queue.New(scenes)
}

func testModel(t *testing.T, names ...string) Model {
	t.Helper()
	m, err := New(testQueue(t, names...), Options{Style: render.ASCII, Color: render.ColorOff, Workers: 2})
	require.NoError(t, err)
	t.Cleanup(func() { m.Session().Close() })
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewRequiresAScene(t *testing.T) {
	_, err := New(queue.New(nil), Options{})
	assert.Error(t, err)
}

func TestTickAdvancesPlayback(t *testing.T) {
	m := testModel(t, "oscillating-charge")
	start := time.Now()

	m, cmd := update(t, m, tickMsg(start))
	assert.NotNil(t, cmd)
	assert.Equal(t, 0, m.state.Index)

	m, _ = update(t, m, tickMsg(start.Add(250*time.Millisecond)))
	assert.Equal(t, 2, m.state.Index)
	assert.Equal(t, 250*time.Millisecond, m.session.Position())
	assert.Len(t, m.history, 2)
}

func TestPauseStopsTicks(t *testing.T) {
	m := testModel(t, "oscillating-charge")
	start := time.Now()
	m, _ = update(t, m, tickMsg(start))

	m, _ = update(t, m, key(" "))
	require.True(t, m.paused)
	m, _ = update(t, m, tickMsg(start.Add(500*time.Millisecond)))
	assert.Zero(t, m.session.Position())

	m, _ = update(t, m, key(" "))
	assert.False(t, m.paused)
}

func TestFrameStepPauses(t *testing.T) {
	m := testModel(t, "oscillating-charge")
	m, _ = update(t, m, key("right"))
	m, _ = update(t, m, key("right"))
	assert.True(t, m.paused)
	assert.Equal(t, 2, m.state.Index)

	m, _ = update(t, m, key("left"))
	assert.Equal(t, 1, m.state.Index)

	m, _ = update(t, m, key("0"))
	assert.Equal(t, 0, m.state.Index)
}

func TestRepeatOneRewindsAtEnd(t *testing.T) {
	m := testModel(t, "oscillating-charge", "dc-wire")
	require.Equal(t, RepeatOne, m.repeatMode)
	start := time.Now()
	m, _ = update(t, m, tickMsg(start))
	m, _ = update(t, m, tickMsg(start.Add(2*time.Second)))

	assert.Equal(t, 0, m.state.Index)
	assert.Equal(t, "oscillating-charge", m.session.Scene().Name)
}

func TestRepeatAllMovesToNextScene(t *testing.T) {
	m := testModel(t, "oscillating-charge", "dc-wire")
	m, _ = update(t, m, key("r"))
	require.Equal(t, RepeatAll, m.repeatMode)

	start := time.Now()
	m, _ = update(t, m, tickMsg(start))
	m, cmd := update(t, m, tickMsg(start.Add(2*time.Second)))
	assert.NotNil(t, cmd)
	assert.Equal(t, "dc-wire", m.session.Scene().Name)

	// the last scene wraps to the first
	m, _ = update(t, m, tickMsg(start.Add(4*time.Second)))
	assert.Equal(t, "oscillating-charge", m.session.Scene().Name)
	assert.False(t, m.paused)
}

func TestRepeatOffPausesAfterLastScene(t *testing.T) {
	m := testModel(t, "oscillating-charge")
	m.repeatMode = RepeatOff
	start := time.Now()
	m, _ = update(t, m, tickMsg(start))
	m, _ = update(t, m, tickMsg(start.Add(2*time.Second)))
	assert.True(t, m.paused)
	assert.Equal(t, 9, m.state.Index)
}

func TestSceneKeys(t *testing.T) {
	m := testModel(t, "oscillating-charge", "dc-wire")
	first := m.session

	m, cmd := update(t, m, key("n"))
	assert.NotNil(t, cmd)
	assert.Equal(t, "dc-wire", m.session.Scene().Name)
	_, err := first.Frame()
	assert.Error(t, err, "the previous session is closed")

	m, _ = update(t, m, key("n"))
	assert.Equal(t, "dc-wire", m.session.Scene().Name, "no scene after the last")

	m, _ = update(t, m, key("p"))
	assert.Equal(t, "oscillating-charge", m.session.Scene().Name)

	m, _ = update(t, m, key("s"))
	assert.True(t, m.queue.IsShuffled())
	m, _ = update(t, m, key("s"))
	assert.False(t, m.queue.IsShuffled())
}

func TestSpeedKey(t *testing.T) {
	m := testModel(t, "oscillating-charge")
	m, _ = update(t, m, key("x"))
	assert.Contains(t, m.View(), "[2x]")

	start := time.Now()
	m, _ = update(t, m, tickMsg(start))
	m, _ = update(t, m, tickMsg(start.Add(200*time.Millisecond)))
	assert.Equal(t, 4, m.state.Index)
}

func TestViewShowsSceneAndProbe(t *testing.T) {
	m := testModel(t, "oscillating-charge", "dc-wire")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(t, m, key("right"))

	v := m.View()
	assert.Contains(t, v, "fieldviz")
	assert.Contains(t, v, "scene 1/2")
	assert.Contains(t, v, "Oscillating electron, near field")
	assert.Contains(t, v, "frame 2/10")
	assert.Contains(t, v, "probe 1  |F|")
	assert.Contains(t, v, "N/C")
	assert.Contains(t, v, "|F| at probe 1")
	assert.Contains(t, v, "n/p scene")
	assert.Contains(t, v, "paused")
}

func TestWindowSizeResizesFrame(t *testing.T) {
	m := testModel(t, "dc-wire")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})
	w, h := m.frameSize(false)
	assert.Equal(t, 56, w)
	assert.Equal(t, 30-chromeRows, h)

	lines := strings.Split(m.frameView, "\n")
	assert.Len(t, lines, h)
	assert.NotContains(t, m.View(), "probe 1")
}

func TestExportKeyWritesGIF(t *testing.T) {
	dir := t.TempDir()
	m, err := New(testQueue(t, "oscillating-charge"), Options{
		Style:     render.ASCII,
		Color:     render.ColorOff,
		Workers:   2,
		Export:    export.Options{Width: 32, Height: 32, Supersample: 1},
		ExportDir: dir,
	})
	require.NoError(t, err)
	defer m.Session().Close()

	m, cmd := update(t, m, key("e"))
	require.NotNil(t, cmd)
	assert.True(t, m.exporting)
	assert.NotContains(t, m.View(), "e export")

	// a second press while exporting is ignored
	_, again := update(t, m, key("e"))
	assert.Nil(t, again)

	msg := cmd()
	done, ok := msg.(exportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, filepath.Join(dir, "oscillating-charge.gif"), done.result.Path)
	assert.Equal(t, 10, done.result.Frames)
	_, err = os.Stat(done.result.Path)
	require.NoError(t, err)

	m, _ = update(t, m, done)
	assert.False(t, m.exporting)
	assert.Contains(t, m.statusMsg, "Exported to")
}

func TestQuitCancelsExport(t *testing.T) {
	dir := t.TempDir()
	m, err := New(testQueue(t, "oscillating-charge"), Options{
		Style:     render.ASCII,
		Color:     render.ColorOff,
		Export:    export.Options{Width: 32, Height: 32, Supersample: 1},
		ExportDir: dir,
	})
	require.NoError(t, err)

	m, cmd := update(t, m, key("e"))
	require.NotNil(t, cmd)
	_, _ = update(t, m, key("q"))

	done, ok := cmd().(exportDoneMsg)
	require.True(t, ok)
	assert.ErrorIs(t, done.err, context.Canceled)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportFailureStatus(t *testing.T) {
	m := testModel(t, "oscillating-charge")
	m, _ = update(t, m, exportDoneMsg{err: assert.AnError})
	assert.Contains(t, m.View(), "Export failed")
}

func TestQuitClosesSession(t *testing.T) {
	m := testModel(t, "oscillating-charge")
	s := m.session
	m, cmd := update(t, m, key("q"))
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
	_, err := s.Frame()
	assert.Error(t, err)
}

func TestPrefetchFillsCache(t *testing.T) {
	m := testModel(t, "oscillating-charge")
	msg := m.prefetchCmd()()
	done, ok := msg.(prefetchDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, 10, m.session.Cached())
}

func TestRenderProbeChart(t *testing.T) {
	assert.Empty(t, renderProbeChart([]float64{1}, "T", 80))
	chart := renderProbeChart([]float64{1e-9, 2e-9, 1.5e-9}, "N/C", 80)
	assert.Contains(t, chart, "(nN/C)")
}

func TestHelpText(t *testing.T) {
	assert.NotContains(t, helpText(false, false), "n/p")
	assert.Contains(t, helpText(true, false), "s shuffle")
	assert.NotContains(t, helpText(true, true), "e export")
}
