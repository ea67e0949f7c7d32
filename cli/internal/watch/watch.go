// Package watch provides file watching for schema and seed file changes.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces editor write bursts into one callback.
const debounceDelay = 500 * time.Millisecond

// Watcher watches a fixed set of files and invokes a callback when any of
// them changes.
type Watcher struct {
	files    map[string]bool
	callback func(path string) error
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// NewWatcher creates a watcher over the given files. The directories
// containing the files are watched, so files recreated by atomic-save
// editors keep being observed.
func NewWatcher(files []string, callback func(path string) error) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		files:    make(map[string]bool, len(files)),
		callback: callback,
		watcher:  watcher,
		done:     make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		w.files[absPath] = true
		dirs[filepath.Dir(absPath)] = true
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	return w, nil
}

// Start starts watching in the background.
func (w *Watcher) Start() {
	go func() {
		debounceTimer := time.NewTimer(debounceDelay)
		debounceTimer.Stop()
		var debounceCh <-chan time.Time
		var pending string

		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}

				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				eventPath, err := filepath.Abs(event.Name)
				if err != nil || !w.files[eventPath] {
					continue
				}

				// Debounce: reset timer on each event
				pending = eventPath
				debounceTimer.Reset(debounceDelay)
				debounceCh = debounceTimer.C

			case <-debounceCh:
				if err := w.callback(pending); err != nil {
					fmt.Fprintf(os.Stderr, "Watch callback error: %v\n", err)
				}
				debounceCh = nil

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)

			case <-w.done:
				return
			}
		}
	}()
}

// Stop stops watching.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
