package config

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/batchtop/errors"
	"github.com/teranos/batchtop/logger"
)

// ReloadCallback is called with the freshly loaded config after the
// watched file changes.
type ReloadCallback func(*Config) error

// Watcher watches the config file and triggers reload callbacks, letting
// the console pick up an edited refresh interval without a restart. Rapid
// bursts of file events are debounced; writes the process made itself can
// be marked to avoid reload loops.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu        sync.Mutex
	callbacks []ReloadCallback
	timer     *time.Timer
	ownWrite  bool

	done chan struct{}
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch config file %s", path)
	}

	return &Watcher{
		path:     path,
		watcher:  fw,
		debounce: 500 * time.Millisecond,
		done:     make(chan struct{}),
	}, nil
}

// OnReload registers a callback for config reloads.
func (w *Watcher) OnReload(cb ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// MarkOwnWrite suppresses the reload triggered by the next write, for
// writes this process performs itself (interval persistence).
func (w *Watcher) MarkOwnWrite() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ownWrite = true
}

// Start begins watching for config file changes.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop closes the watcher.
func (w *Watcher) Stop() {
	close(w.done)
	w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Config watcher error", "error", err)
		}
	}
}

// scheduleReload debounces bursts of file events into one reload.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	if w.ownWrite {
		w.ownWrite = false
		w.mu.Unlock()
		return
	}
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	cfg, err := LoadFromFile(w.path)
	if err != nil {
		logger.Warnw("Config reload failed, keeping previous settings", "path", w.path, "error", err)
		return
	}

	for _, cb := range callbacks {
		if err := cb(cfg); err != nil {
			logger.Warnw("Config reload callback failed", "error", err)
		}
	}
	logger.Infow("Configuration reloaded", "path", w.path)
}
