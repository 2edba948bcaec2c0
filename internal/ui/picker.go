package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/fieldviz/internal/scene"
)

// PickerSelectedMsg reports the chosen scene, or a scene file to load.
type PickerSelectedMsg struct {
	Name string
	Path string
}

// PickerCancelledMsg reports that the picker was closed without a choice.
type PickerCancelledMsg struct{}

type sceneItem struct {
	name  string
	title string
	desc  string
}

func (i sceneItem) Title() string       { return i.title }
func (i sceneItem) Description() string { return i.desc }
func (i sceneItem) FilterValue() string { return i.name + " " + i.title }

type fileItem struct {
	name string
}

func (i fileItem) Title() string       { return i.name }
func (i fileItem) Description() string { return "scene file" }
func (i fileItem) FilterValue() string { return i.name }

// PickerModel lists scenes and scene files in the current directory.
type PickerModel struct {
	list list.Model
	err  error
}

// NewPicker creates a picker for configs followed by the scene files found
// in the current directory.
func NewPicker(configs []scene.Config) PickerModel {
	items := make([]list.Item, 0, len(configs))
	for _, c := range configs {
		title := c.Title
		if title == "" {
			title = c.Name
		}
		items = append(items, sceneItem{name: c.Name, title: title, desc: fmt.Sprintf("%s · %s", c.Name, c.Description)})
	}

	entries, err := os.ReadDir(".")
	if err != nil {
		return PickerModel{err: fmt.Errorf("cannot read directory: %w", err)}
	}
	for _, e := range entries {
		if !e.IsDir() && scene.IsConfigExt(filepath.Ext(e.Name())) {
			items = append(items, fileItem{name: e.Name()})
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "fieldviz"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	return PickerModel{list: l}
}

// HasError returns true if the picker could not be initialized.
func (m PickerModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m PickerModel) Error() error {
	return m.err
}

func (m PickerModel) Init() tea.Cmd {
	return tea.SetWindowTitle("fieldviz")
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case sceneItem:
				return m, func() tea.Msg { return PickerSelectedMsg{Name: item.name} }
			case fileItem:
				return m, func() tea.Msg { return PickerSelectedMsg{Path: item.name} }
			}
		case "q", "esc", "ctrl+c":
			return m, func() tea.Msg { return PickerCancelledMsg{} }
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m PickerModel) View() string {
	return m.list.View()
}
