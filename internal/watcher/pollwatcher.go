package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	poller "github.com/radovskyb/watcher"
	"golang.org/x/sync/errgroup"

	"github.com/henne90gen/dfplot/internal/observability"
)

const defaultPollingPeriod = 500 * time.Millisecond

// pollWatcher watches files by polling their modification times.
//
// A single poller serves all registered paths. It is created lazily on the
// first registration, so a watcher that is never used costs nothing and can
// be finished immediately.
type pollWatcher struct {
	mu       sync.Mutex
	logger   *observability.CoreLogger
	period   time.Duration
	poller   *poller.Watcher
	onChange map[string]func(string)
	finished bool
	done     sync.WaitGroup
}

func newPollWatcher(params Params) *pollWatcher {
	logger := params.Logger
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}

	period := params.PollingPeriod
	if period <= 0 {
		period = defaultPollingPeriod
	}

	return &pollWatcher{
		logger:   logger,
		period:   period,
		onChange: make(map[string]func(string)),
	}
}

func (w *pollWatcher) Watch(path string, onChange func()) error {
	return w.register(path, func(string) { onChange() })
}

func (w *pollWatcher) WatchDir(path string, onChange func(string)) error {
	return w.register(path, onChange)
}

func (w *pollWatcher) Finish() {
	w.mu.Lock()
	w.finished = true
	delegate := w.poller
	w.mu.Unlock()

	if delegate != nil {
		delegate.Close()
	}
	w.done.Wait()
}

// register adds path to the poller and records its callback, starting the
// poll loop if this is the first registration.
func (w *pollWatcher) register(path string, fn func(string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished {
		return fmt.Errorf("watcher: tried to call Watch() after Finish()")
	}

	if w.poller == nil {
		if err := w.start(); err != nil {
			return err
		}
	}

	if err := w.poller.Add(path); err != nil {
		return err
	}
	w.onChange[path] = fn

	return nil
}

// start creates the poller and spins up its goroutines.
//
// It returns only once the poll loop is actually running or has failed to
// start. Called with the mutex held.
func (w *pollWatcher) start() error {
	w.poller = poller.New()

	// Polling cannot tell a first observation from a creation: the poller
	// may emit Create for a file that existed before Add() when the poll
	// loop races the registration. Write and Create are therefore treated
	// as the same "contents may have changed" signal.
	w.poller.FilterOps(poller.Write, poller.Create)

	group, ctx := errgroup.WithContext(context.Background())
	w.done.Add(2)

	group.Go(func() error {
		defer w.done.Done()
		w.forwardEvents(ctx)
		return nil
	})
	group.Go(func() error {
		defer w.done.Done()
		return w.poller.Start(w.period)
	})

	// Block until the poll loop is up. Close() on the poller is a no-op
	// before that point, so finishing a watcher whose Start() is still
	// setting up would deadlock on done.Wait().
	running := make(chan struct{})
	go func() {
		w.poller.Wait()
		close(running)
	}()

	select {
	case <-running:
		return nil
	case <-ctx.Done():
		// Start() failed; surface its error.
		return group.Wait()
	}
}

// forwardEvents dispatches poller events to registered callbacks until the
// poller is closed.
//
// ctx breaks the loop if the poller never started, in which case no Closed
// signal will ever arrive.
func (w *pollWatcher) forwardEvents(ctx context.Context) {
	for {
		select {
		case event := <-w.poller.Event:
			if event.IsDir() {
				continue
			}
			w.dispatch(event.Path)

		case err := <-w.poller.Error:
			w.logger.CaptureError(fmt.Errorf("watcher: %v", err))

		case <-w.poller.Closed:
			return

		case <-ctx.Done():
			return
		}
	}
}

// dispatch runs the callback registered for path, falling back to the one
// registered for its parent directory.
func (w *pollWatcher) dispatch(path string) {
	w.mu.Lock()
	fn, ok := w.onChange[path]
	if !ok {
		fn, ok = w.onChange[filepath.Dir(path)]
	}
	w.mu.Unlock()

	if ok {
		fn(path)
	}
}
