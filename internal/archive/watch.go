package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceDelay is how long Watch waits after the last filesystem event
// before triggering a rebuild, so editor save bursts coalesce into one.
const DebounceDelay = 500 * time.Millisecond

// Watch monitors dir for changes to markdown files and calls rebuild
// after each settled burst of events, until ctx is cancelled. Watcher
// errors are reported through logf and do not stop the loop. Rebuild runs
// on the watch goroutine, so overlapping rebuilds cannot occur.
func Watch(ctx context.Context, dir string, rebuild func(), logf Logf) error {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var timer *time.Timer
	var pending <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(DebounceDelay)
			pending = timer.C

		case <-pending:
			pending = nil
			timer = nil
			rebuild()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logf("⚠️ Watcher error: %v", err)

		case <-ctx.Done():
			return nil
		}
	}
}
