// Package watcher reports changes to files on disk.
package watcher

import (
	"time"

	"github.com/henne90gen/dfplot/internal/observability"
)

// A Watcher invokes callbacks when files it was pointed at change.
type Watcher interface {
	// Watch registers a callback for changes to the file at path.
	//
	// The file must exist. The callback runs when the file's contents may
	// have changed, including when a file is deleted and recreated at the
	// path. Detection is based on the modification time, so writes that
	// land within the same mtime tick can go unnoticed; there is no
	// guarantee the callback runs after the last write to a file.
	Watch(path string, onChange func()) error

	// WatchDir registers a callback for changes inside the directory at
	// path.
	//
	// The callback receives the path of the changed or newly created
	// file. Only direct children of the directory are observed.
	WatchDir(path string, onChange func(string)) error

	// Finish stops the watcher. No callbacks run after it returns, and
	// any further Watch or WatchDir call fails.
	Finish()
}

type Params struct {
	Logger *observability.CoreLogger

	// PollingPeriod is how often files are checked for changes.
	//
	// Zero selects a default.
	PollingPeriod time.Duration
}

// New returns a Watcher that polls files for modification time changes.
func New(params Params) Watcher {
	return newPollWatcher(params)
}
