package config

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounceSecs = 2

// Watcher reloads the configuration file into a Manager when it changes on
// disk. Editors often emit several write events per save, so reloads are
// debounced.
type Watcher struct {
	watcher       *fsnotify.Watcher
	manager       *Manager
	path          string
	debounceTimer *time.Timer
	debounceMutex sync.Mutex
	stopChan      chan struct{}
}

// NewWatcher creates a watcher for the given config file.
func NewWatcher(path string, manager *Manager) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		manager:  manager,
		path:     path,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins watching the config file for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.path); err != nil {
		return err
	}
	go w.watchLoop()
	slog.Info("Config watcher started", "path", w.path)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.stopChan)

	w.debounceMutex.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMutex.Unlock()

	w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
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
			slog.Error("Config watcher error", "error", err)
		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.debounceMutex.Lock()
	defer w.debounceMutex.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(reloadDebounceSecs*time.Second, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := readConfigFile(w.path)
	if err != nil {
		slog.Error("Config reload failed, keeping previous configuration", "path", w.path, "error", err)
		return
	}
	w.manager.Update(cfg)
	slog.Info("Configuration reloaded", "path", w.path)
}
