package application

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"hostpulse/internal/config/domain"
	sharedlogger "hostpulse/internal/shared/logger"
)

const defaultReloadDebounce = 250 * time.Millisecond

// SettingsWatcher re-reads the settings file when it changes on disk and
// hands every valid result to apply. Invalid edits are logged and ignored.
type SettingsWatcher struct {
	logger   sharedlogger.Logger
	path     string
	watcher  *fsnotify.Watcher
	apply    func(domain.Settings)
	debounce time.Duration

	mu      sync.Mutex
	current domain.Settings

	done chan struct{}
	wg   sync.WaitGroup
}

// NewSettingsWatcher watches the directory holding path, since editors
// commonly replace files instead of writing them in place.
func NewSettingsWatcher(logger sharedlogger.Logger, path string, current domain.Settings, apply func(domain.Settings)) (*SettingsWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &SettingsWatcher{
		logger:   logger,
		path:     abs,
		watcher:  w,
		apply:    apply,
		debounce: defaultReloadDebounce,
		current:  current,
		done:     make(chan struct{}),
	}, nil
}

func (w *SettingsWatcher) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop()
	}()
	w.logger.Info("Watching settings file", "path", w.path)
}

// Stop ends the loop and releases the underlying watcher
func (w *SettingsWatcher) Stop() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// Current returns the last applied settings
func (w *SettingsWatcher) Current() domain.Settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *SettingsWatcher) loop() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

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
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Settings watcher error", "err", err)
		}
	}
}

func (w *SettingsWatcher) reload() {
	next, err := LoadSettings(w.path)
	if err != nil {
		w.logger.Warn("Ignoring invalid settings change", "path", w.path, "err", err)
		return
	}

	w.mu.Lock()
	prev := w.current
	w.current = next
	w.mu.Unlock()

	if next == prev {
		return
	}
	if fields := prev.RequiresRestart(next); len(fields) > 0 {
		w.logger.Warn("Settings change takes effect after restart", "fields", fields)
	}
	w.logger.Info("Settings reloaded", "path", w.path)
	w.apply(next)
}
