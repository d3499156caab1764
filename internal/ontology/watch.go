package ontology

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces editor write bursts into one reload
const reloadDebounce = 100 * time.Millisecond

// Watch reloads path into registry whenever the file changes.
// The parent directory is watched so atomic rename-on-save is seen.
// Load failures are logged and the previous snapshot stays in place.
// Blocks until ctx is done.
func Watch(ctx context.Context, path string, registry *Registry, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("ontology file changed", "path", abs, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			reload(abs, registry, logger)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("fsnotify error", "error", werr)
		}
	}
}

func reload(path string, registry *Registry, logger *slog.Logger) {
	names, err := LoadFile(path)
	if err != nil {
		logger.Warn("ontology reload failed, keeping previous snapshot", "path", path, "error", err)
		return
	}
	snap := registry.SetKnownEntities(names)
	logger.Info("ontology reloaded", "path", path, "entities", snap.Len(), "version", snap.Version())
}
