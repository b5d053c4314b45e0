package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/henne90gen/dfplot/internal/chartspec"
	"github.com/henne90gen/dfplot/internal/frame"
)

// LoadSpec creates a command that parses the chart definition and decodes
// the data file it points at. A non-empty dataPath overrides the data
// file named by the definition.
func LoadSpec(fsys afero.Fs, specPath, dataPath string) tea.Cmd {
	return func() tea.Msg {
		spec, err := chartspec.Load(fsys, specPath)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		data, err := loadFrame(fsys, spec, specPath, dataPath)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return SpecLoadedMsg{Spec: spec, Data: data}
	}
}

// LoadData creates a command that re-decodes the data file of an already
// loaded chart definition.
func LoadData(fsys afero.Fs, spec *chartspec.Spec, specPath, dataPath string) tea.Cmd {
	return func() tea.Msg {
		data, err := loadFrame(fsys, spec, specPath, dataPath)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return DataLoadedMsg{Data: data}
	}
}

// loadFrame decodes the chart's data file and checks it against the
// definition's column bindings.
func loadFrame(
	fsys afero.Fs,
	spec *chartspec.Spec,
	specPath string,
	dataPath string,
) (frame.Frame[frame.Row], error) {
	var (
		data frame.Frame[frame.Row]
		err  error
	)
	if dataPath != "" {
		data, err = spec.LoadDataFrom(fsys, dataPath)
	} else {
		data, err = spec.LoadData(fsys, specPath)
	}
	if err != nil {
		return frame.Frame[frame.Row]{}, err
	}
	if err := spec.CheckColumns(data); err != nil {
		return frame.Frame[frame.Row]{}, err
	}
	return data, nil
}

// ExportSVG creates a command that writes an SVG document to disk.
func ExportSVG(fsys afero.Fs, doc string, path string) tea.Cmd {
	return func() tea.Msg {
		if err := afero.WriteFile(fsys, path, []byte(doc), 0o644); err != nil {
			return ErrorMsg{Err: err}
		}
		return ExportedMsg{Path: path}
	}
}
