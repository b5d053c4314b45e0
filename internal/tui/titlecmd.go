package tui

import tea "github.com/charmbracelet/bubbletea"

// windowTitleCmd sets the terminal window title.
func windowTitleCmd() tea.Cmd {
	return tea.SetWindowTitle("dfplot")
}
