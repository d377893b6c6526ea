package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/quizgen-cli/internal/logger"
)

// Handler receives the path of a question file that appeared in a
// watched directory.
type Handler func(ctx context.Context, path string) error

// Watcher ingests question files as they are dropped into a directory.
type Watcher struct {
	dir     string
	handler Handler
}

// NewWatcher creates a directory watcher that invokes handler for each
// new or rewritten .txt file.
func NewWatcher(dir string, handler Handler) *Watcher {
	return &Watcher{dir: dir, handler: handler}
}

// Run watches the directory until the context is cancelled. Handler
// errors are logged, not fatal: one bad file must not stop ingestion.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	logger.Info("Watching %s for question files", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isQuestionFile(event.Name) {
				continue
			}
			logger.Debug("Ingesting %s (%s)", event.Name, event.Op)
			if err := w.handler(ctx, event.Name); err != nil {
				logger.Warn("Ingest %s failed: %v", event.Name, err)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// isQuestionFile reports whether a path looks like an ingestible file.
func isQuestionFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}
