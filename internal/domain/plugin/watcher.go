package plugin

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/glintlauncher/glint/internal/ports"
)

// reloadDebounce coalesces the burst of filesystem events an editor or
// package copy produces into a single reload.
const reloadDebounce = 500 * time.Millisecond

// Watcher reloads plugins when their directories change on disk.
type Watcher struct {
	host   *Host
	logger ports.Logger
	paths  []string
}

// NewWatcher creates a watcher over the host's plugin search paths.
func NewWatcher(host *Host, logger ports.Logger) *Watcher {
	return &Watcher{
		host:   host,
		logger: logger,
		paths:  host.loader.SearchPaths,
	}
}

// Run watches the plugin directories until the context is cancelled.
// Changed plugins are picked up by re-running discovery; already-registered
// plugins keep their runtime state.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fsw.Close() }()

	watching := 0
	for _, path := range w.paths {
		if err := fsw.Add(path); err != nil {
			w.logger.Debug(ctx, "not watching plugin path",
				ports.F("path", path), ports.F("error", err.Error()))
			continue
		}
		watching++
	}
	if watching == 0 {
		// Nothing to watch; block until shutdown so callers can treat
		// Run uniformly.
		<-ctx.Done()
		return ctx.Err()
	}

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(reloadDebounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "plugin watch error", ports.F("error", err.Error()))

		case <-timerCh:
			timer = nil
			timerCh = nil
			w.logger.Info(ctx, "plugin directory changed, reloading")
			if err := w.host.Start(ctx); err != nil {
				w.logger.Error(ctx, "plugin reload failed", ports.F("error", err.Error()))
			}
		}
	}
}
