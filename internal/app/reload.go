package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/philipparndt/gomesh/pkg/watcher"
	"go.uber.org/zap"
)

// EnableAutoReload watches the local files of the list and reloads the
// current entry when its file changes. Entries that are not local files
// are ignored.
func (v *Viewer) EnableAutoReload(debounce time.Duration) error {
	var files []string
	for _, entry := range v.entries {
		if info, err := os.Stat(entry.Location); err == nil && !info.IsDir() {
			files = append(files, entry.Location)
		}
	}
	if len(files) == 0 {
		return errors.New("no local files to watch")
	}

	fw, err := watcher.NewFileWatcher(debounce, v.log)
	if err != nil {
		return err
	}
	if err := fw.Watch(files, v.fileChanged); err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch files: %w", err)
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return fw.Close()
	}
	previous := v.watcher
	v.watcher = fw
	v.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
	fw.Start()
	v.log.Info("watching files for changes", zap.Int("files", len(files)))
	return nil
}

// fileChanged reloads the current entry if path belongs to it
func (v *Viewer) fileChanged(path string) {
	v.mu.Lock()
	if v.closed || len(v.entries) == 0 {
		v.mu.Unlock()
		return
	}
	current := v.entries[v.current].Location
	v.mu.Unlock()

	abs, err := filepath.Abs(current)
	if err != nil || abs != path {
		return
	}

	v.log.Info("file changed, reloading", zap.String("path", path))
	v.ReloadCurrent()
}
