package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/henne90gen/dfplot/internal/observability"
)

// HeartbeatManager schedules periodic refresh messages for charts whose
// data file is still being appended to. It covers the case where the file
// watcher misses events, for example on network filesystems.
//
// The timer is one shot. The model re-arms it with Reset whenever a
// heartbeat or a watcher event has been processed.
type HeartbeatManager struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	outChan  chan<- tea.Msg
	logger   *observability.CoreLogger
}

// NewHeartbeatManager creates a heartbeat manager that sends HeartbeatMsg
// on outChan.
func NewHeartbeatManager(
	interval time.Duration,
	outChan chan<- tea.Msg,
	logger *observability.CoreLogger,
) *HeartbeatManager {
	return &HeartbeatManager{
		interval: interval,
		outChan:  outChan,
		logger:   logger,
	}
}

// Start arms the heartbeat timer.
//
// isRunning is consulted when the timer fires; no message is sent once it
// reports false.
func (hm *HeartbeatManager) Start(isRunning func() bool) {
	hm.logger.Debug("heartbeat: starting")
	hm.arm(isRunning)
}

// Reset restarts the heartbeat timer from now.
func (hm *HeartbeatManager) Reset(isRunning func() bool) {
	hm.arm(isRunning)
}

func (hm *HeartbeatManager) arm(isRunning func() bool) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	if hm.timer != nil {
		hm.timer.Stop()
	}

	hm.timer = time.AfterFunc(hm.interval, func() {
		if !isRunning() {
			return
		}

		select {
		case hm.outChan <- HeartbeatMsg{}:
			hm.logger.Debug("heartbeat: HeartbeatMsg sent")
		default:
			hm.logger.CaptureWarn("heartbeat: channel full, dropping HeartbeatMsg")
		}
	})
}

// Stop cancels any pending heartbeat.
func (hm *HeartbeatManager) Stop() {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	if hm.timer != nil {
		hm.timer.Stop()
		hm.timer = nil
	}
}
