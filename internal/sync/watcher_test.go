package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MikeBiancalana/datesel/internal/config"
)

func TestNewWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigName)

	watcher, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	if watcher == nil {
		t.Fatal("watcher should not be nil")
	}

	if watcher.watcher == nil {
		t.Fatal("underlying fsnotify watcher should not be nil")
	}

	if watcher.path != path {
		t.Fatalf("expected path %s, got %s", path, watcher.path)
	}

	if watcher.changes == nil {
		t.Fatal("changes channel should not be nil")
	}

	// Clean up
	watcher.Stop()
}

func TestWatcherStartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigName)

	watcher, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	if err := watcher.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}

	// Stop twice (should not panic)
	watcher.Stop()
	watcher.Stop()

	select {
	case _, ok := <-watcher.Changes():
		if ok {
			t.Fatal("expected no events after stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("changes channel was not closed after stop")
	}
}

func TestWatcherReloadsOptions(t *testing.T) {
	t.Setenv("DATESEL_END", "")
	os.Unsetenv("DATESEL_END")

	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigName)
	if err := config.WriteOptions(path, config.Options{Format: "YYYY-MM-DD"}); err != nil {
		t.Fatalf("failed to write options: %v", err)
	}

	watcher, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	// Unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if err := config.WriteOptions(path, config.Options{Format: "YYYY-MM-DD", End: "2023-12-31"}); err != nil {
		t.Fatalf("failed to write options: %v", err)
	}

	select {
	case event := <-watcher.Changes():
		if event.Err != nil {
			t.Fatalf("unexpected reload error: %v", event.Err)
		}
		if event.Options.End != "2023-12-31" {
			t.Errorf("expected reloaded end 2023-12-31, got %q", event.Options.End)
		}
		if event.FilePath != path {
			t.Errorf("expected event for %s, got %s", path, event.FilePath)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for options change")
	}
}
