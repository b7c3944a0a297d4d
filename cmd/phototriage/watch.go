package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchSettle = 500 * time.Millisecond

// watchDir calls onChange once the directory has been quiet for settle after
// entries were created, renamed or removed. It returns when ctx is done.
func watchDir(ctx context.Context, dir string, settle time.Duration, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timer.Reset(settle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		case <-timer.C:
			onChange()
		}
	}
}
