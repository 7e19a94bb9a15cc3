package memory

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// startWatcher reloads the snapshot when another process replaces it. The parent
// directory is watched since atomic writes swap the file inode.
func (b *Backend) startWatcher() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating snapshot watcher: %w", err)
	}
	path := filepath.Clean(b.cfg.Path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	b.watcher = w
	b.done = make(chan struct{})
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-b.done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				if err := b.reload(); err != nil {
					b.logger.Warn("snapshot reload failed", "path", path, "error", err)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				b.logger.Warn("snapshot watcher error", "error", err)
			}
		}
	}()
	return nil
}
