// Package configwatch reloads runtime settings when the config file changes.
package configwatch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/actionbridge/internal/cliconfig"
	"github.com/bft-labs/actionbridge/internal/ports"
)

// TimeoutSetter receives the reloaded request timeout.
// *app.Bridge satisfies it.
type TimeoutSetter interface {
	SetTimeout(d time.Duration)
}

// Config holds configuration options for the watcher.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before reloading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// Changed holds the flags set on the command line. A flag or
	// environment timeout takes precedence over the file and is never
	// replaced by a reload.
	Changed map[string]bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{DebounceDelay: 100 * time.Millisecond}
}

// Watcher watches one TOML config file and pushes its timeout to a TimeoutSetter.
type Watcher struct {
	mu sync.Mutex

	path          string
	debounceDelay time.Duration
	changed       map[string]bool
	target        TimeoutSetter
	logger        ports.Logger

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// New creates a watcher for the config file at path.
func New(path string, cfg Config, target TimeoutSetter, logger ports.Logger) *Watcher {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Watcher{
		path:          path,
		debounceDelay: cfg.DebounceDelay,
		changed:       cfg.Changed,
		target:        target,
		logger:        logger,
	}
}

// Start begins watching the directory holding the config file.
// The file itself need not exist yet.
func (w *Watcher) Start(ctx context.Context) error {
	if w.path == "" {
		return errors.New("configwatch: empty config path")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("configwatch: create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("configwatch: watch %s: %w", filepath.Dir(w.path), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	w.logger.Info("config watcher started", ports.String("path", w.path))

	w.wg.Add(1)
	go w.watchLoop(watchCtx, fw)
	return nil
}

// Stop ends the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *Watcher) watchLoop(ctx context.Context, fw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fw.Close()

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", ports.Err(err))
		}
	}
}

func (w *Watcher) scheduleReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.Reload(); err != nil {
			w.logger.Warn("config reload failed", ports.String("path", w.path), ports.Err(err))
		}
	})
}

// Reload reads the config file once and applies its timeout.
// A file without a timeout, or a timeout overridden by a flag or the
// environment, leaves the current value alone.
func (w *Watcher) Reload() error {
	fc, err := cliconfig.LoadFileConfig(w.path)
	if err != nil {
		return err
	}

	var cfg cliconfig.Config
	if err := cliconfig.ApplyFileConfig(&cfg, fc, w.changed); err != nil {
		return err
	}
	if cfg.Timeout == 0 {
		return nil
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must be positive: %s", cfg.Timeout)
	}
	if !cliconfig.FileTimeoutApplies(w.changed) {
		w.logger.Debug("file timeout overridden, not reloading", ports.Duration("file_timeout", cfg.Timeout))
		return nil
	}

	w.target.SetTimeout(cfg.Timeout)
	w.logger.Info("request timeout reloaded", ports.Duration("timeout", cfg.Timeout))
	return nil
}
