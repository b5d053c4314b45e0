package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/henne90gen/dfplot/internal/observability"
)

const (
	envConfigDir = "DFPLOT_CONFIG_DIR"
	configName   = "dfplot.json"

	DefaultHeartbeatInterval = 15 // seconds
)

// Config stores the application configuration.
type Config struct {
	// Heartbeat interval in seconds for live data files.
	//
	// Heartbeats trigger re-reads of the data file if no file watcher
	// events have been seen for a while.
	HeartbeatInterval int `json:"heartbeat_interval_seconds"`

	// CursorEnabled controls whether moving the mouse over the chart
	// shows the value readout.
	CursorEnabled bool `json:"cursor_enabled"`

	// ExportDir is where exported SVG files are written. When empty,
	// exports land next to the chart definition file.
	ExportDir string `json:"export_directory"`
}

// ConfigManager manages application configuration with thread-safe access
// and automatic persistence to disk.
//
// All setter methods automatically save changes to disk.
// Getters use read locks for concurrent access.
type ConfigManager struct {
	mu     sync.RWMutex
	path   string
	config Config
	logger *observability.CoreLogger
}

func NewConfigManager(path string, logger *observability.CoreLogger) *ConfigManager {
	cm := &ConfigManager{
		path: path,
		config: Config{
			HeartbeatInterval: DefaultHeartbeatInterval,
			CursorEnabled:     true,
		},
		logger: logger,
	}
	if err := cm.loadOrCreateConfig(); err != nil {
		cm.logger.Error(fmt.Sprintf("config: error loading or creating: %v", err))
	}

	return cm
}

// loadOrCreateConfig loads the configuration from disk or stores and uses defaults.
func (cm *ConfigManager) loadOrCreateConfig() error {
	data, err := os.ReadFile(cm.path)

	// No config file yet, create and save it.
	if os.IsNotExist(err) {
		if dir := filepath.Dir(cm.path); dir != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
		return cm.save()
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &cm.config); err != nil {
		return err
	}

	cm.normalizeConfig()

	return nil
}

// normalizeConfig ensures all config values are within valid ranges.
func (cm *ConfigManager) normalizeConfig() {
	if cm.config.HeartbeatInterval <= 0 {
		cm.config.HeartbeatInterval = DefaultHeartbeatInterval
	}
	cm.config.ExportDir = strings.TrimSpace(cm.config.ExportDir)
}

// save writes the current configuration to disk.
//
// Must be called while holding the lock.
func (cm *ConfigManager) save() error {
	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return err
	}

	targetPath := cm.path
	tempPath := targetPath + ".tmp"

	// Write atomically via temp file + rename.
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp config file: %v", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		return fmt.Errorf("failed to rename tmp config file: %v", err)
	}

	return nil
}

// Path returns the on-disk config path.
func (cm *ConfigManager) Path() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.path
}

// Snapshot returns a copy of the current config.
func (cm *ConfigManager) Snapshot() Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// HeartbeatInterval returns the heartbeat interval in seconds.
func (cm *ConfigManager) HeartbeatInterval() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.HeartbeatInterval
}

// SetHeartbeatInterval sets the heartbeat interval in seconds.
func (cm *ConfigManager) SetHeartbeatInterval(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("heartbeat interval must be positive, got %d", seconds)
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.config.HeartbeatInterval = seconds
	return cm.save()
}

// CursorEnabled returns whether the mouse cursor readout is enabled.
func (cm *ConfigManager) CursorEnabled() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.CursorEnabled
}

// SetCursorEnabled toggles the mouse cursor readout.
func (cm *ConfigManager) SetCursorEnabled(enabled bool) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.config.CursorEnabled = enabled
	return cm.save()
}

// ExportDir returns the configured export directory, which may be empty.
func (cm *ConfigManager) ExportDir() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.ExportDir
}

// SetExportDir sets the export directory.
func (cm *ConfigManager) SetExportDir(dir string) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.config.ExportDir = strings.TrimSpace(dir)
	return cm.save()
}

// ConfigPath resolves the on-disk location of the config file, honoring
// DFPLOT_CONFIG_DIR with fallbacks to UserConfigDir and a temp dir.
func ConfigPath() string {
	// 1) Honor DFPLOT_CONFIG_DIR
	if raw := strings.TrimSpace(os.Getenv(envConfigDir)); raw != "" {
		if p, ok := configPathFromDir(raw); ok {
			return p
		}
	}

	// 2) Default to ~/.config/dfplot
	if home, err := os.UserHomeDir(); err == nil {
		if p, ok := configPathFromDir(filepath.Join(home, ".config", "dfplot")); ok {
			return p
		}
	}

	// 3) Fallback: OS user config dir (/dfplot)
	if base, err := os.UserConfigDir(); err == nil {
		if p, ok := configPathFromDir(filepath.Join(base, "dfplot")); ok {
			return p
		}
	}

	// 4) Last resort: a fresh temp dir
	if tmp, err := os.MkdirTemp("", "dfplot-*"); err == nil {
		return filepath.Join(tmp, configName)
	}

	// Extremely unlikely final fallback
	return filepath.Join(os.TempDir(), configName)
}

func configPathFromDir(dir string) (string, bool) {
	d := expandAndClean(dir)
	if err := ensureWritableDir(d); err != nil {
		return "", false
	}
	return filepath.Join(d, configName), true
}

func expandAndClean(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			if len(p) == 1 {
				p = home
			} else if p[1] == '/' || p[1] == '\\' {
				p = filepath.Join(home, p[2:])
			}
		}
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return filepath.Clean(p)
}

// ensureWritableDir verifies directory writability without leaving files behind.
func ensureWritableDir(dir string) error {
	if dir == "" {
		return errors.New("empty dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".dfplot-writecheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}
