package watcher

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/prettymuchbryce/autorename/internal/fs"
	"github.com/prettymuchbryce/autorename/internal/vaultpath"
	"github.com/prettymuchbryce/autorename/internal/workspace"
)

// fsnotifyWatcher is the interface for fsnotify operations, allowing mocking in tests.
type fsnotifyWatcher interface {
	Add(name string) error
	Remove(name string) error
}

// WatchedDirs tracks the vault folders registered with fsnotify.
// fsnotify does not watch recursively, so every folder gets its own watch.
// Paths are vault paths and "" is the vault root.
type WatchedDirs struct {
	// fs is the vault filesystem used for stat and walk operations.
	fs fs.FileSystem

	// fsWatcher is the underlying fsnotify watcher.
	// Note: fsnotify auto-removes watches on delete (all platforms), but not on rename for Windows.
	// We explicitly remove watches on delete to keep our state consistent.
	fsWatcher fsnotifyWatcher

	entries map[string]struct{}
}

// NewWatchedDirs creates a new WatchedDirs manager.
func NewWatchedDirs(filesystem fs.FileSystem, fsWatcher fsnotifyWatcher) *WatchedDirs {
	return &WatchedDirs{
		fs:        filesystem,
		fsWatcher: fsWatcher,
		entries:   make(map[string]struct{}),
	}
}

// AddTree watches dir and every folder below it.
// Hidden folders such as .obsidian and .trash are skipped.
func (w *WatchedDirs) AddTree(dir string) error {
	dir = vaultpath.Clean(dir)
	return afero.Walk(w.fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if vaultpath.Clean(filepath.ToSlash(p)) == dir {
				return err
			}
			slog.Warn("failed to read folder", "path", p, "error", err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}

		p = vaultpath.Clean(filepath.ToSlash(p))
		if hidden(p) {
			return filepath.SkipDir
		}
		w.add(p)
		return nil
	})
}

func (w *WatchedDirs) add(dir string) {
	if _, exists := w.entries[dir]; exists {
		return
	}
	if err := w.fsWatcher.Add(w.fs.RealPath(dir)); err != nil {
		slog.Warn("fswatcher failed to add watch", "path", dir, "error", err)
		return
	}
	w.entries[dir] = struct{}{}
	slog.Debug("watching folder", "path", dir)
}

// Remove stops watching dir and every folder below it.
func (w *WatchedDirs) Remove(dir string) {
	dir = vaultpath.Clean(dir)
	for p := range w.entries {
		if dir != "" && p != dir && !strings.HasPrefix(p, dir+"/") {
			continue
		}
		// the watch is usually gone already when the folder was deleted
		if err := w.fsWatcher.Remove(w.fs.RealPath(p)); err != nil {
			slog.Debug("fswatcher failed to remove watch", "path", p, "error", err)
		}
		delete(w.entries, p)
	}
}

// ProcessEvent updates the watches for an event on the vault path p.
// Created folders are watched along with anything already inside them.
// Removed or renamed folders are forgotten.
func (w *WatchedDirs) ProcessEvent(op fsnotify.Op, p string) {
	switch {
	case op&fsnotify.Create != 0:
		info, err := w.fs.Stat(p)
		if err != nil || !info.IsDir() {
			return
		}
		if err := w.AddTree(p); err != nil {
			slog.Warn("failed to watch new folder", "path", p, "error", err)
		}
	case op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if _, exists := w.entries[p]; exists {
			w.Remove(p)
		}
	}
}

// Watching reports whether the folder is watched.
func (w *WatchedDirs) Watching(dir string) bool {
	_, ok := w.entries[vaultpath.Clean(dir)]
	return ok
}

// WatchCount returns the number of folders currently being watched.
func (w *WatchedDirs) WatchCount() int {
	return len(w.entries)
}

// Folders returns the watched folders, sorted.
func (w *WatchedDirs) Folders() []string {
	dirs := make([]string, 0, len(w.entries))
	for p := range w.entries {
		dirs = append(dirs, p)
	}
	sort.Strings(dirs)
	return dirs
}

// Destroy removes every watch.
func (w *WatchedDirs) Destroy() {
	w.Remove("")
}

// hidden reports whether any segment of the vault path starts with a dot.
func hidden(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// skipFile reports whether a created file is never an attachment to rename.
func skipFile(p string) bool {
	name := path.Base(p)
	return p == "" || hidden(p) || strings.HasPrefix(name, "~") || workspace.IsNote(p)
}
