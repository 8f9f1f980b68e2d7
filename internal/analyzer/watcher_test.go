package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_ReportsChangedFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	writeFile(t, root, "app.py", "import os\n")

	watcher, err := NewWatcher(root, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	var batches [][]string
	watcher.Start(context.Background(), func(changed []string) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, changed)
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), []byte("import sys\n"), 0o644))
	writeFile(t, root, "new.js", "const x = 1;\n")

	// The debounce window is 500ms; give the batch time to flush.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) > 0
	}, 5*time.Second, 50*time.Millisecond)

	watcher.Stop()

	mu.Lock()
	defer mu.Unlock()
	seen := make(map[string]bool)
	for _, batch := range batches {
		for _, path := range batch {
			seen[path] = true
		}
	}
	assert.True(t, seen["app.py"] || seen["new.js"])
}

func TestWatcher_IgnoresUnsupportedExtensions(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()

	watcher, err := NewWatcher(root, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	fired := false
	watcher.Start(context.Background(), func([]string) {
		mu.Lock()
		defer mu.Unlock()
		fired = true
	})

	writeFile(t, root, "notes.txt", "not source\n")

	// Longer than the debounce window; no batch should arrive.
	time.Sleep(800 * time.Millisecond)
	watcher.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, fired)
}

func TestWatcher_NoCallbackAfterStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	watcher, err := NewWatcher(root, nil)
	require.NoError(t, err)

	var calls atomic.Int32
	watcher.Start(context.Background(), func([]string) {
		calls.Add(1)
	})

	// Stop inside the debounce window; the pending flush must not fire
	// afterwards.
	writeFile(t, root, "app.py", "import os\n")
	watcher.Stop()

	delivered := calls.Load()
	time.Sleep(800 * time.Millisecond)
	assert.Equal(t, delivered, calls.Load())
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	watcher, err := NewWatcher(t.TempDir(), nil)
	require.NoError(t, err)

	watcher.Start(context.Background(), func([]string) {})
	watcher.Stop()
	watcher.Stop()
}
