package observer

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadCallback is called after the config file changes have settled
type ReloadCallback func(path string)

// ConfigWatcher monitors a config file for changes and invokes a
// callback after a debounce window. The containing directory is watched
// rather than the file itself, since editors typically replace the file
// on save.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	callback ReloadCallback
	debounce time.Duration
	path     string

	timer *time.Timer
	mu    sync.Mutex

	// Serializes callback runs so a save during a long regeneration
	// waits for it instead of starting a second one over the same
	// output paths.
	runMu sync.Mutex

	cancel context.CancelFunc
}

// NewConfigWatcher creates a watcher for the given config file
func NewConfigWatcher(path string, callback ReloadCallback) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	return &ConfigWatcher{
		watcher:  watcher,
		callback: callback,
		debounce: 500 * time.Millisecond, // Debounce rapid saves
		path:     path,
	}, nil
}

// SetDebounce overrides the debounce window (used by tests)
func (cw *ConfigWatcher) SetDebounce(d time.Duration) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.debounce = d
}

// Start begins watching for file changes
func (cw *ConfigWatcher) Start(ctx context.Context) {
	ctx, cw.cancel = context.WithCancel(ctx)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-cw.watcher.Events:
				if !ok {
					return
				}
				cw.handleEvent(event)
			case _, ok := <-cw.watcher.Errors:
				if !ok {
					return
				}
				// Keep watching past transient errors
			}
		}
	}()
}

// Stop stops watching for file changes
func (cw *ConfigWatcher) Stop() {
	if cw.cancel != nil {
		cw.cancel()
	}
	cw.watcher.Close()
}

func (cw *ConfigWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != filepath.Base(cw.path) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.debounce, cw.flush)
}

func (cw *ConfigWatcher) flush() {
	if cw.callback == nil {
		return
	}

	cw.runMu.Lock()
	defer cw.runMu.Unlock()
	cw.callback(cw.path)
}
