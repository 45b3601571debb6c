package feed

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchMissingDirectoryFails(t *testing.T) {
	if _, err := Watch(filepath.Join(t.TempDir(), "absent", "progress.json")); err == nil {
		t.Error("Watch() on a missing directory succeeded, want error")
	}
}

func TestWatchHintsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.json")

	watcher, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer watcher.Close()

	if err := os.WriteFile(path, []byte(`{"stages": []}`), 0644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	select {
	case <-watcher.Hints():
	case <-time.After(2 * time.Second):
		t.Fatal("no hint after snapshot write")
	}
}

func TestWatchIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.json")

	watcher, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer watcher.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	select {
	case <-watcher.Hints():
		t.Error("got a hint for a sibling file write")
	case <-time.After(100 * time.Millisecond):
	}
}
