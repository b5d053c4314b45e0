package tui

import (
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"

	"github.com/henne90gen/dfplot/internal/chart"
	"github.com/henne90gen/dfplot/internal/chartspec"
	"github.com/henne90gen/dfplot/internal/frame"
	"github.com/henne90gen/dfplot/internal/observability"
	"github.com/henne90gen/dfplot/internal/svg"
)

// Model is the application state for the interactive viewer.
//
// It owns one chart definition, the data frame behind it, and the panel
// that renders it. The definition and the data file are watched for
// changes so edits show up without restarting.
type Model struct {
	specPath string

	// dataPath, when non-empty, overrides the data file named by the
	// definition.
	dataPath string

	fsys afero.Fs

	width  int
	height int

	// stateMu guards the fields below against the watcher and heartbeat
	// goroutines.
	stateMu sync.RWMutex

	spec  *chartspec.Spec
	data  frame.Frame[frame.Row]
	chart *chart.Chart[frame.Row]

	// Exactly one of linePanel and barPanel is non-nil once a definition
	// has loaded. The mark in the definition picks which.
	linePanel *ChartPanel
	barPanel  *BarPanel

	help   *HelpModel
	keyMap map[string]func(*Model, tea.KeyMsg) tea.Cmd

	config       *ConfigManager
	watcherMgr   *WatcherManager
	heartbeatMgr *HeartbeatManager

	isLoading  bool
	watching   bool
	lastErr    error
	statusNote string

	// logger is the debug logger for the application.
	logger *observability.CoreLogger
}

func NewModel(
	specPath string,
	dataPath string,
	fsys afero.Fs,
	config *ConfigManager,
	logger *observability.CoreLogger,
) *Model {
	watcherChan := make(chan tea.Msg, 64)

	m := &Model{
		specPath:  specPath,
		dataPath:  dataPath,
		fsys:      fsys,
		help:      NewHelp(),
		keyMap:    buildKeyMap(ViewerKeyBindings()),
		config:    config,
		isLoading: true,
		logger:    logger,
	}
	m.watcherMgr = NewWatcherManager(watcherChan, logger)
	m.heartbeatMgr = NewHeartbeatManager(
		time.Duration(config.HeartbeatInterval())*time.Second,
		watcherChan,
		logger,
	)
	return m
}

// logPanic recovers, reports and re-raises panics so they reach the
// debug log before the program dies.
func (m *Model) logPanic(context string) {
	if r := recover(); r != nil {
		stackTrace := string(debug.Stack())
		m.logger.CaptureError(
			fmt.Errorf("PANIC in %s: %v\nStack trace:\n%s", context, r, stackTrace),
		)
		panic(r)
	}
}

// Init loads the chart definition and starts listening for watcher
// messages.
//
// Implements tea.Model.Init.
func (m *Model) Init() tea.Cmd {
	m.logger.Debug("model: Init called")
	return tea.Batch(
		windowTitleCmd(),
		LoadSpec(m.fsys, m.specPath, m.dataPath),
		m.waitForWatcherMsg(),
	)
}

// Update handles incoming events and updates the model accordingly.
//
// Implements tea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.logPanic("Update")
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	// Help short-circuit (only thing allowed to consume the message)
	if handled, cmd := m.handleHelp(msg); handled {
		return m, cmd
	}

	switch t := msg.(type) {
	case tea.KeyMsg:
		if handler, ok := m.keyMap[t.String()]; ok && handler != nil {
			return m, handler(m, t)
		}
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouseMsg(t)

	case tea.WindowSizeMsg:
		m.width, m.height = t.Width, t.Height
		m.help.SetSize(t.Width, t.Height)
		m.resizePanels()
		return m, nil

	default:
		// SpecLoaded/DataLoaded/FileChanged/Heartbeat/Exported/Error
		return m, tea.Batch(m.dispatch(msg)...)
	}
}

// handleHelp centralizes help toggle and routing while active.
func (m *Model) handleHelp(msg tea.Msg) (bool, tea.Cmd) {
	// Toggle on 'h' / '?'
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "h", "?":
			m.help.Toggle()
			return true, nil
		}
	}

	// When help is visible, it owns key/mouse
	if m.help.IsActive() {
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			updated, cmd := m.help.Update(msg)
			m.help = updated
			return true, cmd
		}
	}
	return false, nil
}

// dispatch routes data and control messages.
func (m *Model) dispatch(msg tea.Msg) []tea.Cmd {
	switch t := msg.(type) {
	case SpecLoadedMsg:
		return m.onSpecLoaded(t)

	case DataLoadedMsg:
		return m.onDataLoaded(t)

	case FileChangedMsg:
		return m.onFileChange(t)

	case HeartbeatMsg:
		return m.onHeartbeat()

	case ExportedMsg:
		m.logger.Info(fmt.Sprintf("model: exported %s", t.Path))
		m.statusNote = fmt.Sprintf("exported %s", t.Path)
		return nil

	case ErrorMsg:
		m.logger.CaptureError(fmt.Errorf("model: %v", t.Err))
		m.lastErr = t.Err
		m.isLoading = false
		return nil

	default:
		return nil
	}
}

// onSpecLoaded installs a freshly loaded definition and, on first load,
// begins live mode.
func (m *Model) onSpecLoaded(msg SpecLoadedMsg) []tea.Cmd {
	m.logger.Debug("model: processing SpecLoadedMsg")
	m.spec = msg.Spec
	m.data = msg.Data
	m.lastErr = nil
	m.isLoading = false
	m.rebuildChart()

	if !m.watcherMgr.IsStarted() {
		if err := m.startWatchers(); err != nil {
			m.logger.CaptureError(fmt.Errorf("model: error starting watcher: %v", err))
		} else {
			m.logger.Info("model: watcher started successfully")
			m.watching = true
			m.heartbeatMgr.Start(m.isRunning)
		}
	}
	return nil
}

// onDataLoaded swaps in a fresh frame under the current definition.
func (m *Model) onDataLoaded(msg DataLoadedMsg) []tea.Cmd {
	m.logger.Debug("model: processing DataLoadedMsg")
	m.data = msg.Data
	m.lastErr = nil
	m.rebuildChart()
	return nil
}

// onFileChange coalesces change notifications into a reload.
func (m *Model) onFileChange(msg FileChangedMsg) []tea.Cmd {
	m.logger.Debug(fmt.Sprintf("model: file changed: %s", msg.Path))
	m.heartbeatMgr.Reset(m.isRunning)

	if msg.Path == m.specPath || m.spec == nil {
		return []tea.Cmd{
			LoadSpec(m.fsys, m.specPath, m.dataPath),
			m.watcherMgr.WaitForMsg,
		}
	}
	return []tea.Cmd{
		LoadData(m.fsys, m.spec, m.specPath, m.dataPath),
		m.watcherMgr.WaitForMsg,
	}
}

// onHeartbeat triggers a data reload and re-arms the heartbeat. This
// catches appends the watcher missed.
func (m *Model) onHeartbeat() []tea.Cmd {
	m.logger.Debug("model: processing HeartbeatMsg")
	m.heartbeatMgr.Reset(m.isRunning)

	if m.spec == nil {
		return []tea.Cmd{m.watcherMgr.WaitForMsg}
	}
	return []tea.Cmd{
		LoadData(m.fsys, m.spec, m.specPath, m.dataPath),
		m.watcherMgr.WaitForMsg,
	}
}

// rebuildChart binds the current definition and frame to a chart and
// hands it to the panel matching the mark.
func (m *Model) rebuildChart() {
	m.chart = chart.New(m.spec.Config(m.data))

	if m.spec.Mark == chartspec.MarkBar {
		if m.barPanel == nil {
			w, h := m.panelSize()
			m.barPanel = NewBarPanel(w, h)
		}
		m.linePanel = nil
		m.barPanel.SetChart(m.chart)
		return
	}

	if m.linePanel == nil {
		w, h := m.panelSize()
		m.linePanel = NewChartPanel(w, h)
		m.linePanel.SetCursorVisible(m.config.CursorEnabled())
	}
	m.barPanel = nil
	m.linePanel.SetChart(m.chart)
}

// startWatchers watches the definition file and its data file. A data
// file that does not exist yet is picked up through its directory.
func (m *Model) startWatchers() error {
	if err := m.watcherMgr.Watch(m.specPath); err != nil {
		return err
	}

	dataPath := m.dataPath
	if dataPath == "" {
		dataPath = m.spec.DataPath(m.specPath)
	}
	if _, err := m.fsys.Stat(dataPath); err == nil {
		return m.watcherMgr.Watch(dataPath)
	}
	return m.watcherMgr.WatchDir(filepath.Dir(dataPath))
}

// isRunning reports whether live mode is active. The heartbeat checks
// this when it fires.
func (m *Model) isRunning() bool {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.watching
}

// panelSize returns the canvas cell size for the chart panel: the
// border eats two columns and two rows, the title row one more, and the
// status bar sits below the box.
func (m *Model) panelSize() (int, int) {
	w := max(m.width-2, MinPanelWidth)
	h := max(m.height-StatusBarHeight-3, MinPanelHeight)
	return w, h
}

func (m *Model) resizePanels() {
	w, h := m.panelSize()
	if m.linePanel != nil {
		m.linePanel.Resize(w, h)
	}
	if m.barPanel != nil {
		m.barPanel.Resize(w, h)
	}
}

func (m *Model) handleQuit(_ tea.KeyMsg) tea.Cmd {
	m.logger.Debug("model: quitting")
	m.watching = false
	m.heartbeatMgr.Stop()
	if m.watcherMgr.IsStarted() {
		m.watcherMgr.Finish()
	}
	return tea.Quit
}

func (m *Model) handleResetZoom(_ tea.KeyMsg) tea.Cmd {
	if m.linePanel != nil {
		m.linePanel.ResetZoom()
	}
	return nil
}

func (m *Model) handleToggleCursor(_ tea.KeyMsg) tea.Cmd {
	enabled := !m.config.CursorEnabled()
	if err := m.config.SetCursorEnabled(enabled); err != nil {
		m.logger.CaptureError(fmt.Errorf("model: error saving config: %v", err))
	}
	if m.linePanel != nil {
		m.linePanel.SetCursorVisible(enabled)
	}
	return nil
}

func (m *Model) handleReload(_ tea.KeyMsg) tea.Cmd {
	m.logger.Debug("model: manual reload")
	m.statusNote = ""
	return LoadSpec(m.fsys, m.specPath, m.dataPath)
}

// handleExport renders the current chart to an SVG document next to the
// definition file, or into the configured export directory.
func (m *Model) handleExport(_ tea.KeyMsg) tea.Cmd {
	if m.chart == nil || m.spec == nil {
		return nil
	}
	doc := svg.Render(m.chart, svg.Options{Title: m.spec.Title})

	dir := m.config.ExportDir()
	if dir == "" {
		dir = filepath.Dir(m.specPath)
	}
	name := strings.TrimSuffix(filepath.Base(m.specPath), filepath.Ext(m.specPath)) + ".svg"
	return ExportSVG(m.fsys, doc, filepath.Join(dir, name))
}

// handleMouseMsg routes wheel events to zoom and motion events to the
// hover readout. Bar panels take neither.
func (m *Model) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if m.linePanel == nil {
		return nil
	}

	// The canvas sits inside the rounded border, below the title row.
	graphStartX := 1
	if m.linePanel.YStep() > 0 {
		graphStartX += m.linePanel.Origin().X + 1
	}
	graphStartY := 2

	relativeX := msg.X - graphStartX
	relativeY := msg.Y - graphStartY

	if tea.MouseEvent(msg).IsWheel() {
		if relativeX < 0 || relativeX >= m.linePanel.GraphWidth() {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.linePanel.HandleZoom("in", relativeX)
		case tea.MouseButtonWheelDown:
			m.linePanel.HandleZoom("out", relativeX)
		}
		return nil
	}

	if msg.Action == tea.MouseActionMotion {
		m.linePanel.PointerMoved(relativeX, relativeY)
	}
	return nil
}

// View renders the UI based on the data in the model.
//
// Implements tea.Model.View.
func (m *Model) View() string {
	defer m.logPanic("View")
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.isLoading {
		return m.renderLoadingScreen()
	}

	// Show help screen if active
	if m.help.IsActive() {
		helpView := m.help.View()
		statusBar := m.renderStatusBar()

		content := lipgloss.JoinVertical(lipgloss.Left, helpView, statusBar)
		return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content)
	}

	var panelView string
	switch {
	case m.linePanel != nil:
		m.linePanel.DrawIfNeeded()
		panelView = m.linePanel.View()
	case m.barPanel != nil:
		m.barPanel.DrawIfNeeded()
		panelView = m.barPanel.View()
	default:
		panelView = loadingTextStyle.Render("no chart loaded")
	}

	title := ""
	if m.spec != nil {
		title = m.spec.Title
	}
	if title == "" {
		title = filepath.Base(m.specPath)
	}

	boxed := borderStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(title),
		panelView,
	))

	statusBar := m.renderStatusBar()
	content := lipgloss.JoinVertical(lipgloss.Left, boxed, statusBar)
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content)
}

// renderLoadingScreen shows the dfplot ASCII art centered on screen.
func (m *Model) renderLoadingScreen() string {
	logoContent := lipgloss.JoinVertical(
		lipgloss.Center,
		artStyle.Bold(true).Render(dfplotArt),
		loadingTextStyle.Render("loading "+filepath.Base(m.specPath)+"..."),
	)

	centeredLogo := lipgloss.Place(
		m.width,
		m.height-StatusBarHeight,
		lipgloss.Center,
		lipgloss.Center,
		logoContent,
	)

	statusBar := m.renderStatusBar()
	return lipgloss.JoinVertical(lipgloss.Left, centeredLogo, statusBar)
}

// renderStatusBar creates the status bar, ensuring it fits on a single line.
func (m *Model) renderStatusBar() string {
	statusText := m.buildStatusText()

	helpText := statusKeyStyle.Render("h: help ")
	spaceForHelp := max(m.width-lipgloss.Width(statusText), 0)
	rightAligned := lipgloss.PlaceHorizontal(spaceForHelp, lipgloss.Right, helpText)

	fullStatus := statusText + rightAligned

	return statusBarStyle.
		Width(m.width).
		MaxWidth(m.width).
		Render(fullStatus)
}

// buildStatusText builds the left side of the status bar.
func (m *Model) buildStatusText() string {
	if m.isLoading {
		return " Loading..."
	}
	if m.lastErr != nil {
		return statusErrorStyle.Render(fmt.Sprintf(" error: %v", m.lastErr))
	}

	statusText := " " + filepath.Base(m.specPath)
	if m.spec != nil {
		statusText += fmt.Sprintf(" • %d rows", m.data.Len())
	}
	if m.watching {
		statusText += " • watching"
	}
	if m.statusNote != "" {
		statusText += " • " + m.statusNote
	}
	if readout := m.cursorReadout(); readout != "" {
		statusText += " • " + readout
	}
	return statusText
}

// cursorReadout formats the hover overlay for the status bar: the
// x-value label followed by one value per series under the pointer.
func (m *Model) cursorReadout() string {
	if m.linePanel == nil || m.chart == nil {
		return ""
	}
	overlay, ok := m.linePanel.Overlay()
	if !ok {
		return ""
	}

	parts := make([]string, 0, len(overlay.Dots)+1)
	if overlay.Label != "" {
		parts = append(parts, overlay.Label)
	}
	cfg := m.chart.Config()
	for _, dot := range overlay.Dots {
		parts = append(parts, fmt.Sprintf("%s %s",
			cfg.Series[dot.Series].Label, formatFloat(dot.Value, 2)))
	}
	return strings.Join(parts, "  ")
}

// waitForWatcherMsg returns a command that waits for messages from the watcher
func (m *Model) waitForWatcherMsg() tea.Cmd {
	return func() tea.Msg {
		// Recover from panics in the watcher goroutine
		defer m.logPanic("waitForWatcherMsg")

		m.logger.Debug("model: waiting for watcher message...")
		msg := m.watcherMgr.WaitForMsg()
		if msg != nil {
			m.logger.Debug(fmt.Sprintf("model: received watcher message: %T", msg))
		}
		return msg
	}
}
