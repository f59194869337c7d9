package syncconfig

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/glitchdraft/draftsync/internal/logger"
	"github.com/glitchdraft/draftsync/internal/utils"
)

// Watcher reloads the sync config when its file changes on disk, so the
// user can drop in or edit credentials without restarting the daemon.
type Watcher struct {
	manager *Manager
	logger  logger.Logger
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
}

func NewWatcher(manager *Manager, log logger.Logger) *Watcher {
	return &Watcher{
		manager: manager,
		logger:  log,
		stopCh:  make(chan struct{}),
	}
}

// Start watches the config file's directory. Watching the directory
// rather than the file survives editors that replace the file on save.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	w.watcher = fw

	dir := filepath.Dir(w.manager.path)
	if err := fw.Add(dir); err != nil {
		utils.Close(fw)
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	target := filepath.Clean(w.manager.path)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Info("sync config file changed, reloading",
				logger.String("op", event.Op.String()))
			if err := w.manager.Load(ctx); err != nil {
				w.logger.Error("failed to reload sync config",
					logger.Error(err))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", logger.Error(err))
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the watcher and releases the underlying handle.
func (w *Watcher) Stop() {
	close(w.stopCh)
	if w.watcher != nil {
		utils.Close(w.watcher)
	}
}
