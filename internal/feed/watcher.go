// Package feed raises change hints for the snapshot file so the board can
// poll immediately instead of waiting out the cadence. Polling remains the
// source of truth; a watcher that cannot start simply means no hints.
package feed

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher coalesces filesystem events on one file into change hints.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	hints   chan struct{}
	done    chan struct{}
}

// Watch starts watching the directory containing path, filtering events to
// the file itself. Snapshot writers typically replace the file, so the
// parent directory is watched rather than the file handle.
func Watch(path string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		path:    path,
		watcher: fsWatcher,
		hints:   make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	base := filepath.Base(w.path)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			// Coalesce: a pending hint already covers this change.
			select {
			case w.hints <- struct{}{}:
			default:
			}
		case <-w.watcher.Errors:
			// Keep watching; polling covers missed events.
		}
	}
}

// Hints returns the channel of change hints.
func (w *Watcher) Hints() <-chan struct{} {
	return w.hints
}

// Close stops the watcher.
func (w *Watcher) Close() {
	close(w.done)
	w.watcher.Close()
}
