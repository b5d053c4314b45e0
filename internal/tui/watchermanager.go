package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/henne90gen/dfplot/internal/observability"
	"github.com/henne90gen/dfplot/internal/watcher"
)

// WatcherManager manages file watching for the chart definition and its
// data file.
type WatcherManager struct {
	watcher     watcher.Watcher
	started     bool
	watcherChan chan tea.Msg
	logger      *observability.CoreLogger
}

// NewWatcherManager creates a new watcher manager.
func NewWatcherManager(
	watcherChan chan tea.Msg,
	logger *observability.CoreLogger,
) *WatcherManager {
	return &WatcherManager{
		watcher:     watcher.New(watcher.Params{Logger: logger}),
		watcherChan: watcherChan,
		logger:      logger,
	}
}

// Watch starts watching the specified file.
//
// The file must exist. A FileChangedMsg carrying its path is emitted on
// every change.
func (wm *WatcherManager) Watch(path string) error {
	wm.logger.Debug(fmt.Sprintf("watcher: starting for path: %s", path))

	err := wm.watcher.Watch(path, func() {
		wm.logger.Debug(fmt.Sprintf("watcher: file changed: %s", path))
		wm.send(path)
	})

	if err != nil {
		wm.logger.CaptureError(fmt.Errorf("watcher: error starting: %v", err))
		return err
	}

	wm.started = true
	return nil
}

// WatchDir starts watching a directory for changes to any file in it.
//
// Used for data files that do not exist yet when the chart definition is
// loaded. The emitted FileChangedMsg carries the path of the changed file.
func (wm *WatcherManager) WatchDir(dir string) error {
	wm.logger.Debug(fmt.Sprintf("watcher: starting for directory: %s", dir))

	err := wm.watcher.WatchDir(dir, func(path string) {
		wm.logger.Debug(fmt.Sprintf("watcher: file changed: %s", path))
		wm.send(path)
	})

	if err != nil {
		wm.logger.CaptureError(fmt.Errorf("watcher: error starting: %v", err))
		return err
	}

	wm.started = true
	return nil
}

func (wm *WatcherManager) send(path string) {
	select {
	case wm.watcherChan <- FileChangedMsg{Path: path}:
		wm.logger.Debug("watcher: FileChangedMsg sent")
	default:
		wm.logger.CaptureWarn("watcher: watcherChan full, dropping FileChangedMsg")
	}
}

// Finish stops the watcher.
func (wm *WatcherManager) Finish() {
	if !wm.started {
		return
	}

	wm.logger.Debug("watcher: finishing")
	wm.watcher.Finish()
	wm.started = false
}

// IsStarted returns whether the watcher is started.
func (wm *WatcherManager) IsStarted() bool {
	return wm.started
}

// WaitForMsg waits for watcher messages.
func (wm *WatcherManager) WaitForMsg() tea.Msg {
	msg := <-wm.watcherChan
	if msg != nil {
		wm.logger.Debug(fmt.Sprintf("watcher: received message: %T", msg))
	}
	return msg
}
