package archive_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vidarchive/mcp-server/internal/archive"
)

func TestWatchRebuildOnChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rebuilt := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- archive.Watch(ctx, dir, func() {
			select {
			case rebuilt <- struct{}{}:
			default:
			}
		}, nil)
	}()

	// Give the watcher time to register before the first write.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("**A**\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("rebuild was not triggered by a markdown write")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not return after cancellation")
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rebuilt := make(chan struct{}, 1)
	go func() {
		archive.Watch(ctx, dir, func() {
			select {
			case rebuilt <- struct{}{}:
			default:
			}
		}, nil)
	}()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-rebuilt:
		t.Fatal("rebuild was triggered by a non-markdown file")
	case <-time.After(archive.DebounceDelay + 500*time.Millisecond):
	}
}

func TestWatchMissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")
	err := archive.Watch(context.Background(), missing, func() {}, nil)
	if err == nil {
		t.Fatal("Watch() expected an error for a missing directory")
	}
}
