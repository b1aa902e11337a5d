package apps

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
)

const reloadDebounce = 200 * time.Millisecond

// WatchCatalog reloads path into holder whenever the file changes, until ctx
// is done. A file that fails to parse leaves the current catalog in place.
// The parent directory is watched so editors that replace the file are seen.
func WatchCatalog(ctx context.Context, path string, holder *CatalogHolder, logger *logging.Logger) error {
	log := logging.OrNop(logger).Component("catalog")

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("catalog path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer watcher.Close()

		var (
			timer   *time.Timer
			pending <-chan time.Time
		)
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(reloadDebounce)
				} else {
					timer.Reset(reloadDebounce)
				}
				pending = timer.C

			case <-pending:
				pending = nil
				c, err := LoadCatalog(abs)
				if err != nil {
					log.Warn("catalog reload failed, keeping previous", zap.String("path", abs), zap.Error(err))
					continue
				}
				holder.Store(c)
				log.Info("catalog reloaded", zap.String("path", abs), zap.Int("entries", c.Len()))

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("catalog watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
