// Package watcher notifies a callback when a file on disk changes.
// Factbot uses it to spot edits to the loaded config file while the
// console is running.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a single file for changes.
type Watcher struct {
	path     string
	onChange func()
	log      *slog.Logger
	debounce time.Duration
}

// New creates a watcher for path. onChange runs after the file is
// written or replaced, debounced so editor save storms fire once.
func New(path string, onChange func(), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		onChange: onChange,
		log:      logger,
		debounce: 500 * time.Millisecond,
	}
}

// WithDebounce sets the debounce duration.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch blocks until the context is cancelled or the underlying
// notifier fails.
func (w *Watcher) Watch(ctx context.Context) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer notifier.Close()

	// Watch the containing directory so replace-on-save editors are
	// still seen.
	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)

	if err := notifier.Add(dir); err != nil {
		return err
	}

	w.log.Debug("watching file", "path", w.path)

	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, w.onChange)

		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return ctx.Err()
		}
	}
}
