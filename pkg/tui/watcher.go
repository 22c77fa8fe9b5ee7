package tui

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 200 * time.Millisecond

// WatchFilter reports whether a change to the named file should reload the
// store.
type WatchFilter func(name string) bool

// RecordFiles matches the JSON records written by the file-backed store. Its
// temp files and dotfiles are ignored.
func RecordFiles(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, ".json") && !strings.HasPrefix(base, ".")
}

// DatabaseFiles matches a SQLite database and its -wal and -journal siblings.
func DatabaseFiles(dbPath string) WatchFilter {
	db := filepath.Base(dbPath)
	return func(name string) bool {
		base := filepath.Base(name)
		return base == db || strings.HasPrefix(base, db+"-")
	}
}

// StartWatcher sends FileChangedMsg to program whenever another process (the
// CLI, usually) changes the storage under root. The returned func stops it.
func StartWatcher(root string, program *tea.Program, filter WatchFilter, log *slog.Logger) (func(), error) {
	return watch(root, filter, log, func() { program.Send(FileChangedMsg{}) })
}

func watch(root string, filter WatchFilter, log *slog.Logger, notify func()) (func(), error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Records are replaced by rename, so the directory is watched, not the files
	if err := watcher.Add(root); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op == fsnotify.Chmod || !filter(event.Name) {
					continue
				}
				log.Debug("storage changed", "file", event.Name, "op", event.Op.String())

				// Coalesce bursts (write + rename) into one reload
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDelay, notify)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("file watcher error", "error", err)

			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			watcher.Close()
		})
	}, nil
}
