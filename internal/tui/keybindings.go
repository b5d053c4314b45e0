package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding defines a key binding for a particular target type.
//
// If Handler is nil, the binding is shown in the help screen but is not dispatched
// through the key map (useful for documentation-only bindings handled by a child
// component or a parent model).
type KeyBinding[T any] struct {
	Keys        []string
	Description string
	Handler     func(*T, tea.KeyMsg) tea.Cmd
}

// BindingCategory groups related key bindings (primarily for help display).
type BindingCategory[T any] struct {
	Name     string
	Bindings []KeyBinding[T]
}

// ViewerKeyBindings returns the key bindings of the chart viewer.
func ViewerKeyBindings() []BindingCategory[Model] {
	return []BindingCategory[Model]{
		{
			Name: "General",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"h", "?"},
					Description: "Toggle this help screen",
				},
				{
					Keys:        []string{"q", "ctrl+c"},
					Description: "Quit",
					Handler:     (*Model).handleQuit,
				},
			},
		},
		{
			Name: "Chart",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"r"},
					Description: "Reset zoom",
					Handler:     (*Model).handleResetZoom,
				},
				{
					Keys:        []string{"c"},
					Description: "Toggle cursor readout",
					Handler:     (*Model).handleToggleCursor,
				},
				{
					Keys:        []string{"R"},
					Description: "Reload chart definition and data",
					Handler:     (*Model).handleReload,
				},
				{
					Keys:        []string{"e"},
					Description: "Export chart as SVG",
					Handler:     (*Model).handleExport,
				},
			},
		},
		{
			Name: "Mouse",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"wheel"},
					Description: "Zoom in/out around the pointer",
				},
				{
					Keys:        []string{"move"},
					Description: "Show values at the pointer position",
				},
				{
					Keys:        []string{"shift+drag"},
					Description: "Select text",
				},
			},
		},
	}
}

// buildKeyMap builds a fast lookup map from key string to handler.
func buildKeyMap[T any](categories []BindingCategory[T]) map[string]func(*T, tea.KeyMsg) tea.Cmd {
	keyMap := make(map[string]func(*T, tea.KeyMsg) tea.Cmd)
	for _, category := range categories {
		for _, binding := range category.Bindings {
			if binding.Handler == nil {
				continue
			}
			for _, key := range binding.Keys {
				keyMap[key] = binding.Handler
			}
		}
	}
	return keyMap
}
