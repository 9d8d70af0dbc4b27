package sync

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/MikeBiancalana/datesel/internal/config"
	"github.com/MikeBiancalana/datesel/internal/logger"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// OptionsChangeEvent carries the reloaded options after the options file changed
type OptionsChangeEvent struct {
	FilePath string
	Options  config.Options
	Err      error
}

// Watcher watches the options file for changes
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	changes chan OptionsChangeEvent
	done    chan struct{}
}

// NewWatcher creates a new watcher for the options file at path
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve options path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher: fsWatcher,
		path:    abs,
		changes: make(chan OptionsChangeEvent, 1),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching. The directory is watched rather than the file so
// that editors which replace the file on save are noticed.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	go w.watch()
	return nil
}

// Stop stops the watcher. The Changes channel is closed once the event
// loop exits.
func (w *Watcher) Stop() {
	select {
	case <-w.done:
		return
	default:
	}
	close(w.done)
	w.watcher.Close()
}

// Changes returns the channel for options change notifications
func (w *Watcher) Changes() <-chan OptionsChangeEvent {
	return w.changes
}

// watch is the main event loop
func (w *Watcher) watch() {
	defer close(w.changes)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Reset debounce timer
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
			} else {
				timer.Reset(debounceDelay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			opts, err := config.Load(w.path)
			if err != nil {
				logger.Warn("sync: failed to reload options", "path", w.path, "error", err)
			} else {
				logger.Debug("sync: options reloaded", "path", w.path)
			}

			select {
			case w.changes <- OptionsChangeEvent{FilePath: w.path, Options: opts, Err: err}:
			case <-w.done:
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue watching
			logger.Warn("sync: watcher error", "error", err)
		}
	}
}
