package lexicon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 300 * time.Millisecond

// Watch reloads the registry whenever a file under the lexicon directory
// changes. It blocks until ctx is cancelled. onReload, if set, runs after
// every successful reload.
func (r *Registry) Watch(ctx context.Context, onReload func()) error {
	if r.dir == "" {
		return fmt.Errorf("watch: no lexicon dir configured")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("watch %s: %w", r.dir, err)
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", r.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			_ = watcher.Add(filepath.Join(r.dir, e.Name()))
		}
	}

	timer := time.NewTimer(reloadDebounce)
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
			if event.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			timer.Reset(reloadDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("lexicon watcher error", zap.Error(err))
		case <-timer.C:
			if err := r.Reload(); err != nil {
				r.logger.Error("lexicon reload failed", zap.Error(err))
				continue
			}
			r.logger.Info("lexicon reloaded", zap.Int("lists", len(r.Lists())))
			if onReload != nil {
				onReload()
			}
		}
	}
}
