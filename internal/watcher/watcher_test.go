package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henne90gen/dfplot/internal/watcher"
)

// The watcher polls, so these tests trade determinism for speed: a short
// polling period, success paths that finish quickly, and a generous
// deadline that only a genuinely stuck watcher should hit.

func newTestWatcher() watcher.Watcher {
	return watcher.New(watcher.Params{
		PollingPeriod: 10 * time.Millisecond,
	})
}

func writeFile(t *testing.T, path, content string) time.Time {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime()
}

func recvWithDeadline[T any](t *testing.T, c <-chan T, what string) T {
	t.Helper()
	select {
	case x := <-c:
		return x
	case <-time.After(5 * time.Second):
		t.Fatal("took too long: " + what)
		panic("unreachable")
	}
}

func finishWithDeadline(t *testing.T, w watcher.Watcher) {
	t.Helper()
	finished := make(chan struct{})

	go func() {
		w.Finish()
		close(finished)
	}()

	recvWithDeadline(t, finished, "expected Finish() to complete")
}

func TestWatch_RunsCallbackOnWrite(t *testing.T) {
	t.Parallel()

	changed := make(chan struct{})
	file := filepath.Join(t.TempDir(), "data.json")
	t1 := writeFile(t, file, "")

	w := newTestWatcher()
	defer finishWithDeadline(t, w)
	require.NoError(t, w.Watch(file, func() { changed <- struct{}{} }))

	// Sleep so the second write lands on a different mtime tick. On
	// filesystems with coarse mtime resolution the write can still be
	// invisible to the poller; skip rather than flake.
	time.Sleep(100 * time.Millisecond)
	t2 := writeFile(t, file, `[{"x": 1}]`)
	if t1 == t2 {
		t.Skip("mtime did not change between writes")
	}

	recvWithDeadline(t, changed, "expected file callback to run")
}

func TestWatchDir_RunsCallbackForNewFile(t *testing.T) {
	t.Parallel()

	changed := make(chan string)
	dir := filepath.Join(t.TempDir(), "out")
	file := filepath.Join(dir, "data.json")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	w := newTestWatcher()
	defer finishWithDeadline(t, w)
	require.NoError(t, w.WatchDir(dir, func(s string) { changed <- s }))
	writeFile(t, file, "")

	got := recvWithDeadline(t, changed, "expected directory callback to run")
	assert.Equal(t, file, got)
}

func TestWatch_FailsForMissingFile(t *testing.T) {
	t.Parallel()

	w := newTestWatcher()
	defer finishWithDeadline(t, w)

	err := w.Watch(filepath.Join(t.TempDir(), "missing.json"), func() {})
	require.Error(t, err)
}

func TestWatch_FailsAfterFinish(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "data.json")
	writeFile(t, file, "")

	w := newTestWatcher()
	finishWithDeadline(t, w)

	err := w.Watch(file, func() {})
	require.ErrorContains(t, err, "tried to call Watch() after Finish()")
}
