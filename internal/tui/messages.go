// Messages for the Bubble Tea model
package tui

import (
	"github.com/henne90gen/dfplot/internal/chartspec"
	"github.com/henne90gen/dfplot/internal/frame"
)

// SpecLoadedMsg carries a freshly parsed chart definition together with
// the decoded contents of its data file.
type SpecLoadedMsg struct {
	Spec *chartspec.Spec
	Data frame.Frame[frame.Row]
}

// DataLoadedMsg carries re-decoded data after the data file changed on disk.
type DataLoadedMsg struct {
	Data frame.Frame[frame.Row]
}

// FileChangedMsg indicates that a watched file changed on disk.
type FileChangedMsg struct {
	Path string
}

// HeartbeatMsg triggers a data refresh when no watcher events have been
// seen for a while.
type HeartbeatMsg struct{}

// ExportedMsg indicates that the chart was written as an SVG document.
type ExportedMsg struct {
	Path string
}

// ErrorMsg wraps an error.
type ErrorMsg struct {
	Err error
}

func (e ErrorMsg) Error() string {
	return e.Err.Error()
}
