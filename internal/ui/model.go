// Package ui holds the Bubbletea models of the viewer and the scene picker.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/fieldviz/internal/export"
	"github.com/olivier-w/fieldviz/internal/frame"
	"github.com/olivier-w/fieldviz/internal/playback"
	"github.com/olivier-w/fieldviz/internal/queue"
	"github.com/olivier-w/fieldviz/internal/render"
	"github.com/olivier-w/fieldviz/internal/util"
)

const (
	historyLen     = 120
	statusDuration = 5 * time.Second
	// rows used by everything except the frame and the chart
	chromeRows = 13
)

// Options configure the viewer.
type Options struct {
	Style     render.Style
	Color     render.ColorMode
	Workers   int
	Export    export.Options
	ExportDir string
}

// Model is the Bubbletea model for the scene viewer.
type Model struct {
	queue   *queue.Queue
	session *playback.Session
	opt     Options
	ctx     context.Context
	cancel  context.CancelFunc

	paused     bool
	width      int
	height     int
	quitting   bool
	repeatMode RepeatMode
	lastTick   time.Time

	state     frame.State
	frameView string
	lastIndex int
	history   []float64
	err       error

	statusMsg    string
	statusTime   time.Time
	exporting    bool
	exportCancel context.CancelFunc
}

// New creates a viewer playing the current entry of q.
func New(q *queue.Queue, opt Options) (Model, error) {
	if q.Current() == nil {
		return Model{}, errors.New("no scenes to play")
	}
	m := Model{queue: q, opt: opt, width: 80, height: 32}
	m.openCurrent()
	return m, nil
}

func (m *Model) openCurrent() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.session != nil {
		m.session.Close()
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	sc := m.queue.Current().Scene
	w, h := m.frameSize(len(sc.Config.Probes) > 0)
	m.session = playback.NewSession(sc, render.NewTerminal(m.opt.Style, m.opt.Color, sc.FPS), w, h)
	m.history = m.history[:0]
	m.lastIndex = -1
	m.err = nil
	m.refresh()
	slog.Info("scene opened", "scene", sc.Name, "frames", sc.Frames(), "fps", sc.FPS)
}

// Session returns the playback session of the current scene.
func (m Model) Session() *playback.Session { return m.session }

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.session.TickInterval()),
		m.prefetchCmd(),
		tea.SetWindowTitle(windowTitle(m.session.Scene().Title, false)),
	)
}

// prefetchCmd computes every frame of the current scene in the background.
// It stops when the scene is closed.
func (m Model) prefetchCmd() tea.Cmd {
	ctx, s, workers := m.ctx, m.session, m.opt.Workers
	return func() tea.Msg {
		err := s.Prefetch(ctx, workers, nil)
		return prefetchDoneMsg{scene: s.Scene().Name, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		now := time.Time(msg)
		if !m.paused && !m.lastTick.IsZero() {
			if m.session.Advance(now.Sub(m.lastTick)) {
				var cmd tea.Cmd
				m, cmd = m.sceneEnded()
				m.lastTick = now
				m.refresh()
				return m, tea.Batch(cmd, tickCmd(m.session.TickInterval()))
			}
		}
		m.lastTick = now
		m.refresh()
		if m.statusMsg != "" && time.Since(m.statusTime) > statusDuration {
			m.statusMsg = ""
		}
		return m, tickCmd(m.session.TickInterval())

	case prefetchDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			slog.Warn("prefetch failed", "scene", msg.scene, "error", msg.err)
		}
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		if m.exportCancel != nil {
			m.exportCancel()
			m.exportCancel = nil
		}
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Export failed: %v", msg.err))
			slog.Error("export failed", "error", msg.err)
		} else {
			m.setStatus(fmt.Sprintf("Exported to %s (%s)", msg.result.Path, util.FormatBytes(msg.result.Bytes)))
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.session.Resize(m.frameSize(len(m.session.Scene().Config.Probes) > 0))
		m.refresh()
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isQuit(msg) {
		m.quitting = true
		if m.cancel != nil {
			m.cancel()
		}
		if m.exportCancel != nil {
			m.exportCancel()
		}
		m.session.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}
	switch msg.String() {
	case " ":
		m.paused = !m.paused
		return m, tea.SetWindowTitle(windowTitle(m.session.Scene().Title, m.paused))
	case "left", "h":
		m.paused = true
		m.session.Step(-1)
	case "right", "l":
		m.paused = true
		m.session.Step(1)
	case "0", "home":
		m.session.Rewind()
	case "x":
		m.session.CycleSpeed()
	case "r":
		m.repeatMode = m.repeatMode.Next()
	case "s":
		if m.queue.IsShuffled() {
			m.queue.DisableShuffle()
		} else {
			m.queue.EnableShuffle()
		}
	case "n":
		if m.queue.Advance() {
			return m.switchScene()
		}
	case "p":
		if m.queue.Previous() {
			return m.switchScene()
		}
	case "e":
		if !m.exporting {
			m.exporting = true
			m.setStatus("Exporting...")
			cmd := m.exportCmd()
			return m, cmd
		}
	}
	m.refresh()
	return m, nil
}

// sceneEnded applies the repeat mode at the end of a pass.
func (m Model) sceneEnded() (Model, tea.Cmd) {
	switch {
	case m.repeatMode == RepeatOne:
		m.session.Rewind()
		return m, nil
	case m.queue.Advance():
		return m.openNext()
	case m.repeatMode == RepeatAll:
		m.queue.WrapToStart()
		m.queue.Advance()
		return m.openNext()
	default:
		m.paused = true
		return m, tea.SetWindowTitle(windowTitle(m.session.Scene().Title, true))
	}
}

func (m Model) openNext() (Model, tea.Cmd) {
	m.openCurrent()
	return m, tea.Batch(m.prefetchCmd(), tea.SetWindowTitle(windowTitle(m.session.Scene().Title, m.paused)))
}

func (m Model) switchScene() (tea.Model, tea.Cmd) {
	return m.openNext()
}

// exportCmd writes the current scene to a GIF. The export outlives scene
// switches but not the viewer.
func (m *Model) exportCmd() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.exportCancel = cancel
	sc := m.session.Scene()
	dir := m.opt.ExportDir
	if dir == "" {
		dir = "."
	}
	opt := m.opt.Export
	opt.Workers = m.opt.Workers
	return func() tea.Msg {
		res, err := export.WriteFile(ctx, export.FreePath(dir, sc.Name), sc.Generator, sc.FPS, opt)
		return exportDoneMsg{result: res, err: err}
	}
}

func (m *Model) setStatus(s string) {
	m.statusMsg = s
	m.statusTime = time.Now()
}

// refresh renders the frame at the current position and records the probe
// history when the frame index changed.
func (m *Model) refresh() {
	view, st, err := m.session.View()
	if err != nil {
		m.err = err
		return
	}
	m.frameView, m.state = view, st
	if st.Index != m.lastIndex && len(st.Probes) > 0 {
		m.history = append(m.history, st.Probes[0].Magnitude)
		if len(m.history) > historyLen {
			m.history = m.history[len(m.history)-historyLen:]
		}
	}
	m.lastIndex = st.Index
}

func (m Model) frameSize(probes bool) (int, int) {
	w := max(m.width-4, 10)
	h := m.height - chromeRows
	if probes {
		h -= chartHeight + 2
	}
	return w, max(h, 4)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	w := m.width
	if w < 30 {
		w = 50
	}
	sc := m.session.Scene()

	header := headerStyle.Render("fieldviz")
	if n := m.queue.Len(); n > 1 {
		header += helpStyle.Render(fmt.Sprintf("  scene %d/%d", m.queue.CurrentIndex()+1, n))
	}

	lines := "\n"
	lines += "  " + header + "\n"
	lines += "  " + titleStyle.Render(sc.Title) + "\n"
	lines += "  " + descStyle.Render(sc.Description) + "\n"
	lines += "\n"
	if m.err != nil {
		lines += "  " + errorStyle.Render(m.err.Error()) + "\n"
	} else {
		lines += indentBlock(m.frameView, "  ") + "\n"
	}
	lines += "\n"

	pos, dur := m.session.Position(), m.session.Duration()
	frameStr := fmt.Sprintf("frame %d/%d", m.state.Index+1, sc.Frames())
	barWidth := w - len(util.FormatDuration(pos)) - len(util.FormatDuration(dur)) - len(frameStr) - 8
	bar := renderProgressBar(pos.Seconds(), dur.Seconds(), barWidth)
	lines += fmt.Sprintf("  %s %s %s  %s\n",
		timeStyle.Render(util.FormatDuration(pos)), bar, timeStyle.Render(util.FormatDuration(dur)), timeStyle.Render(frameStr))

	statusIcon, statusText := "▶", "playing"
	if m.paused {
		statusIcon, statusText = "❚❚", "paused"
	}
	leftText := fmt.Sprintf("%s  %s", statusIcon, statusText)
	for _, icon := range []string{m.session.Speed().Label(), m.repeatMode.Icon(), shuffleIcon(m.queue.IsShuffled())} {
		if icon != "" {
			leftText += "  " + icon
		}
	}
	rightText := util.FormatTime(m.state.T)
	gap := w - len(leftText) - len(rightText) - 4
	lines += "  " + statusStyle.Render(leftText) + spaces(max(gap, 2)) + statusStyle.Render(rightText) + "\n"

	for _, r := range renderReadouts(m.state) {
		lines += "  " + readoutStyle.Render(r) + "\n"
	}
	if chart := renderProbeChart(m.history, fieldUnit(m.state), w); chart != "" {
		lines += indentBlock(chartStyle.Render(chart), "  ") + "\n"
	}
	if m.statusMsg != "" {
		lines += "  " + helpStyle.Render(m.statusMsg) + "\n"
	}
	lines += "\n"
	lines += "  " + helpStyle.Render(helpText(m.queue.Len() > 1, m.exporting)) + "\n"
	return lines
}

func shuffleIcon(on bool) string {
	if on {
		return "[shuffle]"
	}
	return ""
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " · fieldviz"
	}
	return "▶ " + title + " · fieldviz"
}
