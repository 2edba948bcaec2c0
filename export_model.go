package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/fieldviz/internal/export"
	"github.com/olivier-w/fieldviz/internal/scene"
)

type exportStatusMsg openStatus

type exportFinishedMsg struct {
	result export.Result
	err    error
}

// exportModel shows the progress of a headless export.
type exportModel struct {
	scene  *scene.Scene
	path   string
	opt    export.Options
	ctx    context.Context
	cancel context.CancelFunc

	spinner    spinner.Model
	progress   progress.Model
	status     openStatus
	statusCh   chan openStatus
	cancelling bool

	result export.Result
	err    error
}

func newExportModel(sc *scene.Scene, path string, opt export.Options) exportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#3A7BFF", "#FF5F5F"),
		progress.WithoutPercentage(),
	)
	p.Width = 40

	ctx, cancel := context.WithCancel(context.Background())
	return exportModel{
		scene:    sc,
		path:     path,
		opt:      opt,
		ctx:      ctx,
		cancel:   cancel,
		spinner:  s,
		progress: p,
		status:   openStatus{total: sc.Frames()},
		statusCh: make(chan openStatus, 16),
	}
}

func (m exportModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForStatus(), m.runCmd())
}

func (m exportModel) runCmd() tea.Cmd {
	ctx, sc, path, opt, statusCh := m.ctx, m.scene, m.path, m.opt, m.statusCh
	opt.Progress = func(done, total int) {
		select {
		case statusCh <- openStatus{done: done, total: total}:
		default:
		}
	}
	return func() tea.Msg {
		defer close(statusCh)
		res, err := export.WriteFile(ctx, path, sc.Generator, sc.FPS, opt)
		return exportFinishedMsg{result: res, err: err}
	}
}

func (m exportModel) waitForStatus() tea.Cmd {
	statusCh := m.statusCh
	return func() tea.Msg {
		status, ok := <-statusCh
		if !ok {
			return nil
		}
		return exportStatusMsg(status)
	}
}

func (m exportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case exportStatusMsg:
		if msg.done > m.status.done {
			m.status = openStatus(msg)
		}
		return m, m.waitForStatus()

	case exportFinishedMsg:
		m.result, m.err = msg.result, msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		// wait for the export to remove its temporary file
		if startupIsQuit(msg) && !m.cancelling {
			m.cancelling = true
			m.cancel()
		}
	}
	return m, nil
}

func (m exportModel) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("fieldviz"))
	b.WriteString("  ")
	b.WriteString(startupStatusStyle.Render(m.scene.Title))
	b.WriteString("\n\n  ")

	switch {
	case m.cancelling:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(startupStatusStyle.Render("Cancelling..."))
	case m.status.done >= m.status.total:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(startupStatusStyle.Render("Encoding " + m.path))
	default:
		b.WriteString(m.progress.ViewAs(float64(m.status.done) / float64(max(m.status.total, 1))))
		b.WriteString(fmt.Sprintf("  %d/%d frames", m.status.done, m.status.total))
	}
	b.WriteString("\n\n  ")
	b.WriteString(startupHelpStyle.Render("q cancel"))
	b.WriteString("\n")
	return b.String()
}
