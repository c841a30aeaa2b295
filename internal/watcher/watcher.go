package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/streamforge/bpctl/internal/utils/logger"
)

// Watcher re-runs a callback when a watched file changes, debounced so a
// burst of editor writes triggers a single run.
type Watcher struct {
	watcher   *fsnotify.Watcher
	onChange  func(string) error
	debouncer *debouncer
}

type debouncer struct {
	timer    *time.Timer
	duration time.Duration
}

// New creates a watcher invoking onChange with the changed path.
func New(onChange func(string) error) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		watcher:   fsWatcher,
		onChange:  onChange,
		debouncer: &debouncer{duration: 500 * time.Millisecond},
	}, nil
}

// Watch starts watching the given files. The containing directories are
// watched too, so editors that replace files atomically still trigger.
func (w *Watcher) Watch(paths ...string) error {
	logger.Info("watching for changes", zap.Strings("paths", paths))

	for _, path := range paths {
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		dir := filepath.Dir(path)
		if err := w.watcher.Add(dir); err != nil {
			logger.Warn("failed to watch directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	go w.processEvents()
	return nil
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Write != fsnotify.Write && event.Op&fsnotify.Create != fsnotify.Create {
		return
	}
	logger.Debug("file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))

	w.debouncer.debounce(func() {
		if err := w.onChange(event.Name); err != nil {
			logger.Error("change handler failed", zap.String("file", event.Name), zap.Error(err))
		}
	})
}

func (d *debouncer) debounce(fn func()) {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	if w.debouncer.timer != nil {
		w.debouncer.timer.Stop()
	}
	return w.watcher.Close()
}
