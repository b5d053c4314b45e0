// Test<API> provides a controlled interface for testing internal model state.
// These methods are only exposed for tests in the tui_test package.
package tui

import (
	"github.com/henne90gen/dfplot/internal/chart"
	"github.com/henne90gen/dfplot/internal/chartspec"
	"github.com/henne90gen/dfplot/internal/frame"
)

// TestSpec returns the loaded chart definition
func (m *Model) TestSpec() *chartspec.Spec {
	return m.spec
}

// TestData returns the current data frame
func (m *Model) TestData() frame.Frame[frame.Row] {
	return m.data
}

// TestChart returns the bound chart
func (m *Model) TestChart() *chart.Chart[frame.Row] {
	return m.chart
}

// TestIsLoading returns true while the first load is in flight
func (m *Model) TestIsLoading() bool {
	return m.isLoading
}

// TestLastErr returns the most recent load error
func (m *Model) TestLastErr() error {
	return m.lastErr
}

// TestStatusNote returns the transient status bar note
func (m *Model) TestStatusNote() string {
	return m.statusNote
}

// TestHelpActive returns true if the help screen is shown
func (m *Model) TestHelpActive() bool {
	return m.help.IsActive()
}

// TestLinePanel returns the line panel, nil for bar charts
func (m *Model) TestLinePanel() *ChartPanel {
	return m.linePanel
}

// TestBarPanel returns the bar panel, nil for line charts
func (m *Model) TestBarPanel() *BarPanel {
	return m.barPanel
}

// TestCursorCell returns the graph column of the hover hairline
func (p *ChartPanel) TestCursorCell() int {
	return p.cursorCell
}

// TestCursorVisible returns true if the hover readout is enabled
func (p *ChartPanel) TestCursorVisible() bool {
	return p.cursorVisible
}
