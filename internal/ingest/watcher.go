package ingest

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/raghavkh/manualqa/internal/extract"
	"github.com/raghavkh/manualqa/internal/logger"
)

// WatchDirectory keeps the index in sync with the data directory in real
// time. It blocks until the context is cancelled.
func (ix *Indexer) WatchDirectory(ctx context.Context, dirPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !extract.IsSupported(event.Name) {
					continue
				}

				// Editors often write via a temp file plus rename, which
				// fires several events; Create and Write are handled the
				// same and Rename is treated as a removal.
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					logger.Info("file modified, re-indexing", zap.String("path", event.Name))
					if err := ix.IngestFile(ctx, event.Name); err != nil {
						logger.Error("failed to re-index file", zap.String("path", event.Name), zap.Error(err))
					}
				} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					logger.Info("file removed, purging from index", zap.String("path", event.Name))
					if err := ix.store.DeleteBySource(ctx, event.Name); err != nil {
						logger.Error("failed to purge file", zap.String("path", event.Name), zap.Error(err))
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", zap.Error(err))

			case <-ctx.Done():
				logger.Info("watcher shutting down")
				return
			}
		}
	}()

	if err := watcher.Add(dirPath); err != nil {
		return err
	}
	logger.Info("watching directory", zap.String("dir", dirPath))

	<-ctx.Done()
	return nil
}
