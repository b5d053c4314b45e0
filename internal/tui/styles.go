package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/henne90gen/dfplot/internal/svg"
)

// Layout constants
const (
	StatusBarHeight = 1
	MinPanelWidth   = 24
	MinPanelHeight  = 6
)

const accentColor = lipgloss.Color("#1F77B4")

// ASCII art for the loading screen and the help page
const dfplotArt = `
██████  ███████ ██████  ██       █████  ███████
██   ██ ██      ██   ██ ██      ██   ██    ██
██   ██ █████   ██████  ██      ██   ██    ██
██   ██ ██      ██      ██      ██   ██    ██
██████  ██      ██      ███████  █████     ██
`

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	axisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236"))

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("203")).
				Background(lipgloss.Color("236"))

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Background(lipgloss.Color("236"))

	cursorLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	artStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	loadingTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("246")).
				Italic(true)

	helpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Width(20)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor).
				MarginTop(1).
				MarginBottom(1)

	helpContentStyle = lipgloss.NewStyle().
				Padding(1, 2)
)

// seriesStyle returns the lipgloss style used to draw series i, honoring
// an explicitly configured color before falling back to the shared palette,
// so the terminal view matches the exported SVG.
func seriesStyle(configured string, i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(svg.SeriesColor(configured, i)))
}
