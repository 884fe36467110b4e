package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce batches the burst of events an editor save produces.
const reloadDebounce = 200 * time.Millisecond

// Watch reloads the catalog at path into h whenever the file changes. A file
// that fails to parse leaves the previous catalog in place. Watch returns
// once the watcher is running; it stops when ctx is done.
func Watch(ctx context.Context, path string, h *Holder, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}

	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	go run(ctx, watcher, filepath.Clean(path), h, logger)
	return nil
}

func run(ctx context.Context, watcher *fsnotify.Watcher, path string, h *Holder, logger *zap.Logger) {
	defer watcher.Close()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(reloadDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("catalog watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			c, err := Load(path)
			if err != nil {
				logger.Warn("catalog reload failed, keeping previous copy", zap.String("path", path), zap.Error(err))
				continue
			}
			h.Set(c)
			logger.Info("catalog reloaded", zap.String("path", path))
		}
	}
}
