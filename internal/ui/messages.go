package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/fieldviz/internal/export"
)

type tickMsg time.Time

type prefetchDoneMsg struct {
	scene string
	err   error
}

type exportDoneMsg struct {
	result export.Result
	err    error
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
