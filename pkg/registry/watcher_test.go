package registry

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestNewWatcher_Validation(t *testing.T) {
	loader := NewLoader(Options{})

	if _, err := NewWatcher(loader, nil, nil); err == nil {
		t.Error("NewWatcher(nil config) succeeded, want error")
	}
	if _, err := NewWatcher(loader, &WatcherConfig{}, nil); err == nil {
		t.Error("NewWatcher(empty path) succeeded, want error")
	}

	cfg := DefaultWatcherConfig("/tmp/config.yml")
	cfg.RefreshSchedule = "not a cron expression"
	if _, err := NewWatcher(loader, cfg, nil); err == nil {
		t.Error("NewWatcher(bad schedule) succeeded, want error")
	}

	cfg = DefaultWatcherConfig("/tmp/config.yml")
	cfg.RefreshSchedule = "*/5 * * * *"
	w, err := NewWatcher(loader, cfg, nil)
	if err != nil {
		t.Fatalf("NewWatcher(valid schedule) failed: %v", err)
	}
	w.watcher.Close()
}

func TestWatcher_ShouldProcess(t *testing.T) {
	w := &Watcher{config: DefaultWatcherConfig("/tmp/config.yml")}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"yaml write", fsnotify.Event{Name: "/tmp/a.yml", Op: fsnotify.Write}, true},
		{"long ext", fsnotify.Event{Name: "/tmp/a.yaml", Op: fsnotify.Create}, true},
		{"upper case ext", fsnotify.Event{Name: "/tmp/A.YML", Op: fsnotify.Write}, true},
		{"chmod only", fsnotify.Event{Name: "/tmp/a.yml", Op: fsnotify.Chmod}, false},
		{"hidden file", fsnotify.Event{Name: "/tmp/.a.yml.swp", Op: fsnotify.Write}, false},
		{"other extension", fsnotify.Event{Name: "/tmp/a.json", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.shouldProcess(tt.event); got != tt.want {
				t.Errorf("shouldProcess(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestDebouncer_CollapsesBursts(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.trigger(func() { calls.Add(1) })
		time.Sleep(time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times for one burst, want 1", got)
	}
}

func TestDebouncer_StopSuppressesPending(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.trigger(func() { calls.Add(1) })
	d.stop()

	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("callback ran %d times after stop, want 0", got)
	}
	// Triggers after stop are ignored.
	d.trigger(func() { calls.Add(1) })
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("callback ran %d times after stop, want 0", got)
	}
}

func TestWatcher_ReresolvesOnChange(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	write := func(tlen string) {
		content := "datasets:\n  ds:\n    toplevel: /data\n    tlen: " + tlen + "\n"
		if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	write("2")

	cfg := DefaultWatcherConfig(configPath)
	cfg.DebounceInterval = 20 * time.Millisecond
	w, err := NewWatcher(NewLoader(Options{}), cfg, nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	results := make(chan *Result, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := w.Watch(ctx, func(r *Result) { results <- r }); err != nil {
			t.Errorf("Watch() failed: %v", err)
		}
	}()

	waitResult := func(what string) *Result {
		select {
		case r := <-results:
			return r
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", what)
			return nil
		}
	}

	first := waitResult("startup resolution")
	d, _ := first.Registry.Get("ds")
	if d.TLen != 2 {
		t.Errorf("startup tlen = %g, want 2", d.TLen)
	}

	write("7")
	second := waitResult("re-resolution after change")
	d, _ = second.Registry.Get("ds")
	if d.TLen != 7 {
		t.Errorf("refreshed tlen = %g, want 7", d.TLen)
	}
	if second.RunID == first.RunID {
		t.Error("refresh reused the previous run ID")
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
}
