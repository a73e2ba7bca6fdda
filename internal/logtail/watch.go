package logtail

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to a single log file. It watches the parent
// directory so the file may be created or rotated after the watch starts.
type Watcher struct {
	fs   *fsnotify.Watcher
	name string
}

// Watch starts watching path.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch log dir: %w", err)
	}
	return &Watcher{fs: fw, name: abs}, nil
}

// Next blocks until the log file changes. It returns false once the watcher
// is closed. Watch errors are skipped.
func (w *Watcher) Next() bool {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return false
			}
			if filepath.Clean(ev.Name) != w.name {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				return true
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return false
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
