package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(hasQueue bool, exporting bool) string {
	s := "space pause  ←/→ frame  0 restart  x speed  r repeat"
	if hasQueue {
		s += "  n/p scene  s shuffle"
	}
	if !exporting {
		s += "  e export"
	}
	s += "  q quit"
	return s
}
