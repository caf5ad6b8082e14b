package config

import (
	"chatoverlay/pkg/logger"
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher reloads the config file whenever it changes on disk and hands the old and the
// new config to every subscriber. Invalid edits are logged and ignored.
type Watcher struct {
	log      logger.Logger
	manager  *Manager
	debounce time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	subscribers []func(prev, next *Config)
}

func NewWatcher(log logger.Logger, manager *Manager) *Watcher {
	return &Watcher{
		log:      log,
		manager:  manager,
		debounce: defaultDebounce,
	}
}

func (w *Watcher) Subscribe(fn func(prev, next *Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.subscribers = append(w.subscribers, fn)
}

// Run blocks until ctx is done. The directory is watched instead of the file itself
// because saves replace the file with a rename.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	path, err := filepath.Abs(w.manager.Path())
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	w.log.Info("Watching config for changes", slog.String("path", path))

	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Config watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	prev, next, err := w.manager.Reload()
	if err != nil {
		w.log.Error("Failed to reload config, keeping the current one", err)
		return
	}
	w.log.Info("Config reloaded")

	w.mu.Lock()
	subs := append([]func(prev, next *Config){}, w.subscribers...)
	w.mu.Unlock()

	for _, fn := range subs {
		fn(prev, next)
	}
}
