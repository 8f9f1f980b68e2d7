package analyzer

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a source tree and invokes a callback with the batch of
// changed files after a quiet period. Changes to files outside the
// supported extension set are ignored.
type Watcher struct {
	rootDir      string
	watcher      *fsnotify.Watcher
	extensions   map[string]bool
	debounceTime time.Duration

	callback func(changed []string)
	cancel   context.CancelFunc
	doneCh   chan struct{}
	stopOnce sync.Once
	flushWG  sync.WaitGroup

	mu            sync.Mutex
	accumulated   map[string]bool
	debounceTimer *time.Timer
	stopped       bool
}

// NewWatcher creates a Watcher over rootDir for the given extensions.
// Empty extensions fall back to the discovery defaults.
func NewWatcher(rootDir string, extensions []string) (*Watcher, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		rootDir:      rootDir,
		watcher:      fsWatcher,
		extensions:   make(map[string]bool, len(extensions)),
		debounceTime: 500 * time.Millisecond,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}
	for _, ext := range extensions {
		w.extensions[ext] = true
	}

	if err := w.addDirectoriesRecursively(rootDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// Start begins watching. The callback receives slash-normalized relative
// paths of changed files once the debounce window closes.
func (w *Watcher) Start(ctx context.Context, callback func(changed []string)) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.callback = callback
	go w.watch(ctx)
}

// Stop stops the watcher and waits for its goroutine to finish. No
// callback is delivered after Stop returns. Idempotent.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		}
		w.watcher.Close()

		w.mu.Lock()
		w.stopped = true
		if w.debounceTimer != nil && w.debounceTimer.Stop() {
			// The pending flush will never run.
			w.flushWG.Done()
		}
		w.mu.Unlock()

		// Wait out a flush that fired before the timer was stopped.
		w.flushWG.Wait()
	})
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Warning: watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories need to be added to the watch set.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirectoriesRecursively(event.Name); err != nil {
				log.Printf("Warning: failed to watch %s: %v", event.Name, err)
			}
			return
		}
	}

	if !w.extensions[filepath.Ext(event.Name)] {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	relPath, err := filepath.Rel(w.rootDir, event.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}

	w.accumulated[filepath.ToSlash(relPath)] = true
	if w.debounceTimer != nil && w.debounceTimer.Stop() {
		// The superseded flush will never run.
		w.flushWG.Done()
	}
	w.flushWG.Add(1)
	w.debounceTimer = time.AfterFunc(w.debounceTime, w.flush)
}

// flush delivers the accumulated batch to the callback. Stop waits for an
// in-flight flush through flushWG, so no callback runs after Stop returns.
func (w *Watcher) flush() {
	defer w.flushWG.Done()

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	changed := make([]string, 0, len(w.accumulated))
	for path := range w.accumulated {
		changed = append(changed, path)
	}
	w.accumulated = make(map[string]bool)
	w.mu.Unlock()

	if len(changed) > 0 && w.callback != nil {
		w.callback(changed)
	}
}

func (w *Watcher) addDirectoriesRecursively(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if !info.IsDir() {
			return nil
		}
		// Skip the usual noise directories.
		base := filepath.Base(path)
		if base == ".git" || base == "node_modules" || base == "__pycache__" {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
