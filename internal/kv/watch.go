package kv

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const watchDebounce = 100 * time.Millisecond

// Watch calls onChange after the file at path is written or replaced. Bursts
// of events are collapsed into one call. Watch returns once the watcher is
// running; it stops when ctx is cancelled.
func Watch(ctx context.Context, path string, log zerolog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: FileStore replaces the file via rename, which
	// drops a watch held on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	name := filepath.Base(path)
	var (
		mu       sync.Mutex
		debounce *time.Timer
	)
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if debounce != nil {
			debounce.Stop()
		}
		debounce = time.AfterFunc(watchDebounce, func() {
			if ctx.Err() == nil {
				onChange()
			}
		})
	}

	go func() {
		defer func() {
			_ = watcher.Close()
			mu.Lock()
			if debounce != nil {
				debounce.Stop()
			}
			mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				trigger()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Str("path", path).Msg("store watcher error")
			}
		}
	}()
	return nil
}
