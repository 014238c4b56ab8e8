package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the watcher:
// - A write to a watched file fires the callback after the debounce window
// - Writes to unwatched files in the same directory are ignored
// - Stop is idempotent and safe before any event

func TestWatcher_ReportsChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.py")
	ignored := filepath.Join(dir, "ignored.py")
	require.NoError(t, os.WriteFile(watched, []byte("def a():\n    pass\n"), 0o644))
	require.NoError(t, os.WriteFile(ignored, []byte("def b():\n    pass\n"), 0o644))

	w, err := New([]string{watched})
	require.NoError(t, err)
	defer w.Stop()

	changes := make(chan []string, 1)
	w.Start(context.Background(), func(files []string) {
		select {
		case changes <- files:
		default:
		}
	})

	// Give the watch loop a moment to come up, then touch both files.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(ignored, []byte("def b():\n    return 2\n"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("def a():\n    return 1\n"), 0o644))

	select {
	case files := <-changes:
		require.Len(t, files, 1)
		abs, _ := filepath.Abs(watched)
		assert.Equal(t, abs, files[0])
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "f.py")
	require.NoError(t, os.WriteFile(file, []byte("x = 1\n"), 0o644))

	w, err := New([]string{file})
	require.NoError(t, err)

	w.Start(context.Background(), func([]string) {})
	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
