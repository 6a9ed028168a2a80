package vault

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/raido/internal/models"
)

// Watch forwards file-system events under the vault root to the
// notification sink until ctx is cancelled. It lets editor clients observe
// changes made outside the tool layer. New directories created at runtime
// are added to the watch list automatically.
func Watch(ctx context.Context, root, ext string, sink Notifier, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					notifyDir(root, ext, absPath, sink)
					continue
				}
			}

			if !strings.HasSuffix(absPath, ext) {
				continue
			}
			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&fsnotify.Create != 0:
				logger.Debug("watcher: add", slog.String("path", rel))
				sink.Notify(rel, models.EventAdd)
			case ev.Op&fsnotify.Write != 0:
				logger.Debug("watcher: change", slog.String("path", rel))
				sink.Notify(rel, models.EventChange)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Rename fires on the old path only; the new path arrives
				// as a separate Create event.
				logger.Debug("watcher: unlink", slog.String("path", rel))
				sink.Notify(rel, models.EventUnlink)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// notifyDir reports note files already present in a newly created directory.
func notifyDir(root, ext, dirPath string, sink Notifier) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ext) {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		sink.Notify(filepath.ToSlash(rel), models.EventAdd)
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
