package player

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of writes to the catalog file.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a Player when its catalog file changes on disk.
type Watcher struct {
	player   *Player
	log      *slog.Logger
	debounce time.Duration
}

// NewWatcher returns a Watcher for p. A non-positive debounce uses DefaultDebounce.
func NewWatcher(p *Player, log *slog.Logger, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{player: p, log: log, debounce: debounce}
}

// Run watches the catalog until ctx is done. The directory is watched rather
// than the file so that editors replacing the file by rename are seen.
func (w *Watcher) Run(ctx context.Context) error {
	path := w.player.Path()
	if path == "" {
		return ErrNotLoaded
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve catalog path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch catalog dir: %w", err)
	}
	w.log.Info("watching catalog", slog.String("path", abs))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("catalog watcher stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("catalog watcher error", slog.String("error", err.Error()))

		case <-timer.C:
			if err := w.player.Reload(); err != nil {
				w.log.Error("catalog reload failed", slog.String("error", err.Error()))
			}
		}
	}
}
