package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/fieldviz/internal/scene"
	"github.com/olivier-w/fieldviz/internal/ui"
)

type startupPhase uint8

const (
	phasePick startupPhase = iota
	phaseOpening
)

type openStatus struct {
	done, total int
}

type startupResolvedMsg struct {
	model ui.Model
	err   error
}

type startupStatusMsg openStatus

type startupModel struct {
	picker    ui.PickerModel
	configs   []scene.Config
	overrides scene.Overrides
	opt       ui.Options
	ctx       context.Context
	cancel    context.CancelFunc

	phase     startupPhase
	errMsg    string
	width     int
	height    int
	spinner   spinner.Model
	progress  progress.Model
	status    openStatus
	statusCh  chan openStatus
	hasStatus bool
}

func newStartupModel(configs []scene.Config, ov scene.Overrides, opt ui.Options) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#3A7BFF", "#FF5F5F"),
		progress.WithoutPercentage(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	return startupModel{
		picker:    ui.NewPicker(configs),
		configs:   configs,
		overrides: ov,
		opt:       opt,
		ctx:       ctx,
		cancel:    cancel,
		phase:     phasePick,
		spinner:   s,
		progress:  p,
	}
}

func (m startupModel) Init() tea.Cmd {
	return tea.Batch(m.picker.Init(), m.spinner.Tick)
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-8, 20), 60)
		if m.phase == phasePick {
			model, cmd := m.picker.Update(msg)
			if picker, ok := model.(ui.PickerModel); ok {
				m.picker = picker
			}
			return m, cmd
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.phase == phaseOpening {
			return m, cmd
		}
		return m, nil

	case ui.PickerCancelledMsg:
		m.cancel()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case ui.PickerSelectedMsg:
		m.phase = phaseOpening
		m.errMsg = ""
		m.hasStatus = false
		m.status = openStatus{}
		m.statusCh = make(chan openStatus, 16)
		return m, tea.Batch(
			m.spinner.Tick,
			m.waitForStatus(),
			m.openSelectionCmd(msg),
		)

	case startupStatusMsg:
		m.hasStatus = true
		if msg.done > m.status.done {
			m.status = openStatus(msg)
		}
		return m, m.waitForStatus()

	case startupResolvedMsg:
		if msg.err != nil {
			m.phase = phasePick
			m.errMsg = msg.err.Error()
			m.hasStatus = false
			m.statusCh = nil
			return m, nil
		}

		cmds := []tea.Cmd{msg.model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return msg.model, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.phase == phaseOpening && startupIsQuit(msg) {
			m.cancel()
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	if m.phase == phasePick {
		model, cmd := m.picker.Update(msg)
		if picker, ok := model.(ui.PickerModel); ok {
			m.picker = picker
		}
		return m, cmd
	}

	return m, nil
}

func (m startupModel) openSelectionCmd(sel ui.PickerSelectedMsg) tea.Cmd {
	ctx, configs, ov, opt, statusCh := m.ctx, m.configs, m.overrides, m.opt, m.statusCh
	return func() tea.Msg {
		defer close(statusCh)
		model, err := openSelection(ctx, sel, configs, ov, opt, statusCh)
		return startupResolvedMsg{model: model, err: err}
	}
}

func (m startupModel) waitForStatus() tea.Cmd {
	if m.statusCh == nil {
		return nil
	}
	statusCh := m.statusCh
	return func() tea.Msg {
		status, ok := <-statusCh
		if !ok {
			return nil
		}
		return startupStatusMsg(status)
	}
}

func (m startupModel) View() string {
	if m.phase == phasePick {
		if m.picker.HasError() {
			return "\n  fieldviz\n\n  " + m.picker.Error().Error() + "\n"
		}
		if m.errMsg == "" {
			return m.picker.View()
		}
		return "\n  fieldviz\n\n  " + startupErrorStyle.Render(m.errMsg) + "\n\n" + indentBlock(m.picker.View(), "  ")
	}

	return m.renderOpeningView()
}

func (m startupModel) renderOpeningView() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("fieldviz"))
	b.WriteString("\n\n")

	if m.hasStatus && m.status.total > 0 {
		b.WriteString("  ")
		b.WriteString(startupStatusStyle.Render("Computing frames..."))
		b.WriteString("\n  ")
		b.WriteString(m.progress.ViewAs(float64(m.status.done) / float64(m.status.total)))
		b.WriteString(fmt.Sprintf("  %d/%d\n", m.status.done, m.status.total))
	} else {
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(startupStatusStyle.Render("Opening..."))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	startupErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)
