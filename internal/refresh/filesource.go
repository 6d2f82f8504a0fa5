package refresh

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDefault is the quiet period after the last write before a file
// change fires.
const debounceDefault = 200 * time.Millisecond

// FileSource is a Notifier backed by fsnotify: it fires once per debounced
// burst of writes to any watched file. Typical use is re-evaluating guards
// when a route-table or feature-flag file changes on disk.
type FileSource struct {
	*Signal

	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewFileSource creates a watcher over the given paths. Paths that do not
// exist are skipped; at least one must be watchable.
func NewFileSource(paths ...string) (*FileSource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("refresh: create file watcher: %w", err)
	}

	watched := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := watcher.Add(p); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("refresh: watch %q: %w", p, err)
		}
		watched++
	}
	if watched == 0 {
		watcher.Close()
		return nil, fmt.Errorf("refresh: no watchable paths")
	}

	return &FileSource{
		Signal:   NewSignal(),
		watcher:  watcher,
		debounce: debounceDefault,
	}, nil
}

// Run pumps file events into the signal. Blocks until ctx is cancelled.
func (f *FileSource) Run(ctx context.Context) error {
	defer f.watcher.Close()

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-f.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(f.debounce, f.Notify)
			}

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "refresh: file watcher error: %v\n", err)
		}
	}
}
