package registry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// WatcherConfig contains configuration for the registry watcher.
type WatcherConfig struct {
	// Path is the root configuration document to re-resolve.
	Path string

	// DebounceInterval is the quiet period after a filesystem event before
	// re-resolution triggers (default: 250ms). Editors often write a file
	// several times in quick succession.
	DebounceInterval time.Duration

	// Extensions are the file suffixes whose changes trigger re-resolution.
	Extensions []string

	// RefreshSchedule is an optional cron expression for periodic
	// re-resolution, for trees on mounts where change events are
	// unreliable. Empty disables scheduled refresh.
	RefreshSchedule string

	// SkipHidden controls whether hidden files are ignored.
	SkipHidden bool
}

// DefaultWatcherConfig returns the default watcher configuration for path.
func DefaultWatcherConfig(path string) *WatcherConfig {
	return &WatcherConfig{
		Path:             path,
		DebounceInterval: 250 * time.Millisecond,
		Extensions:       []string{".yaml", ".yml"},
		SkipHidden:       true,
	}
}

// Watcher re-runs the resolution pipeline whenever the configuration tree
// changes, producing a fresh Result each time. Registries are never
// mutated in place; consumers swap to the new Result atomically in the
// callback.
type Watcher struct {
	loader   *Loader
	config   *WatcherConfig
	watcher  *fsnotify.Watcher
	cron     *cron.Cron
	logger   *slog.Logger
	debounce *debouncer

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher around a loader. The cron schedule, when
// present, is validated here so misconfiguration fails at startup.
func NewWatcher(loader *Loader, config *WatcherConfig, logger *slog.Logger) (*Watcher, error) {
	if config == nil || config.Path == "" {
		return nil, fmt.Errorf("watcher requires a configuration path")
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 250 * time.Millisecond
	}
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".yaml", ".yml"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(config.RefreshSchedule); err != nil {
			return nil, fmt.Errorf("invalid refresh schedule %q: %w", config.RefreshSchedule, err)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		loader:   loader,
		config:   config,
		watcher:  fw,
		cron:     cron.New(),
		logger:   logger.With("component", "registry.watcher"),
		debounce: newDebouncer(config.DebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks, re-resolving on changes and invoking onResult with each
// new Result until the context is cancelled or Stop is called. Resolution
// failures are logged and watching continues; the previous Result stays
// current.
func (w *Watcher) Watch(ctx context.Context, onResult func(*Result)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	// Watch the whole tree below the root document: included fragments
	// live in sibling and nested directories.
	if err := w.addTree(filepath.Dir(w.config.Path)); err != nil {
		return fmt.Errorf("watch configuration tree: %w", err)
	}

	reload := func(reason string) {
		result, err := w.loader.Load(ctx, w.config.Path)
		if err != nil {
			w.logger.Error("re-resolution failed", "reason", reason, "error", err)
			return
		}
		w.logger.Info("registry refreshed",
			"reason", reason,
			"run_id", result.RunID,
			"datasets", result.Registry.Len(),
			"skipped", len(result.Skipped),
		)
		onResult(result)
	}

	if w.config.RefreshSchedule != "" {
		if _, err := w.cron.AddFunc(w.config.RefreshSchedule, func() { reload("schedule") }); err != nil {
			return fmt.Errorf("add refresh schedule: %w", err)
		}
		w.cron.Start()
		defer w.cron.Stop()
	}

	// Initial resolution before any event arrives.
	reload("startup")

	w.logger.Info("watching configuration tree",
		"path", w.config.Path,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
		"schedule", w.config.RefreshSchedule,
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-w.stopCh:
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcess(event) {
				continue
			}
			w.logger.Debug("configuration change detected", "path", event.Name, "op", event.Op.String())
			w.debounce.trigger(func() { reload("change") })

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// Keep watching despite transient errors.
			w.logger.Error("watch error", "error", err)
		}
	}
}

// Stop stops the watcher and waits for the watch loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.debounce.stop()
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}
	return nil
}

// addTree registers dir and every subdirectory with the watcher.
func (w *Watcher) addTree(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if w.config.SkipHidden && path != dir && strings.HasPrefix(filepath.Base(path), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("watch directory %q: %w", path, err)
			}
			w.logger.Debug("watching directory", "path", path)
		}
		return nil
	})
}

// shouldProcess filters events down to relevant configuration changes.
func (w *Watcher) shouldProcess(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if w.config.SkipHidden && strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, valid := range w.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

// debouncer collapses bursts of events into one callback after a quiet
// period.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopped  bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		cb := d.callback
		stopped := d.stopped
		d.mu.Unlock()
		if cb != nil && !stopped {
			cb()
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
