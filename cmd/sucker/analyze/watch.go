package analyzecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSessions calls fn after session files under roots are written, once
// no further writes arrive for the debounce period. Directory roots match
// files against pattern; file roots match themselves. It returns when ctx
// is done or the watcher fails.
func watchSessions(ctx context.Context, roots []string, pattern string, debounce time.Duration, logger *slog.Logger, fn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating session watcher: %w", err)
	}
	defer watcher.Close()

	files := map[string]bool{}
	dirs := map[string]bool{}
	for _, root := range roots {
		root = filepath.Clean(root)
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("watching %s: %w", root, err)
		}
		dir := root
		if !info.IsDir() {
			files[root] = true
			dir = filepath.Dir(root)
		} else {
			dirs[root] = true
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	relevant := func(name string) bool {
		name = filepath.Clean(name)
		if files[name] {
			return true
		}
		if !dirs[filepath.Dir(name)] {
			return false
		}
		ok, _ := filepath.Match(pattern, filepath.Base(name))
		return ok
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !relevant(event.Name) {
				continue
			}
			logger.Debug("session changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)
		case <-timer.C:
			fn()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("session watcher error: %w", err)
		}
	}
}
