package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const debounceInterval = 300 * time.Millisecond

// watchAndRebuild watches the directory holding the index, since exporters
// often replace the file rather than write it in place.
func watchAndRebuild(ctx context.Context, opts *watchOptions, feed *graphFeed) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(opts.indexPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.indexPath, err)
	}

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevantChange(event, opts.indexPath) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, func() {
				publishCurrentGraph(ctx, opts, feed)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logrus.Warnf("watcher error: %v", err)
		}
	}
}

// publishCurrentGraph keeps the last good graph when a rebuild fails, e.g.
// while the index is half written.
func publishCurrentGraph(ctx context.Context, opts *watchOptions, feed *graphFeed) {
	dot, err := buildDOTGraph(ctx, opts)
	if err != nil {
		logrus.Errorf("graph rebuild error: %v", err)
		return
	}
	logrus.Debugf("graph rebuilt from %s", opts.indexPath)
	feed.publish(dot)
}

func isRelevantChange(event fsnotify.Event, indexPath string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(indexPath)
}
