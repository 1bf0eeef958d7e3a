// Package watcher renames attachments as they are added to the vault.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/fsnotify/fsnotify"

	"github.com/prettymuchbryce/autorename/internal/config"
	"github.com/prettymuchbryce/autorename/internal/filter"
	"github.com/prettymuchbryce/autorename/internal/fs"
	"github.com/prettymuchbryce/autorename/internal/vaultpath"
)

// Handler renames a newly created attachment. It returns the vault path the
// file was moved to, or "" when the file was left alone.
type Handler func(ctx context.Context, path string) (string, error)

// Watcher monitors the vault and passes new attachments to a Handler.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	fs        fs.FileSystem
	matcher   *filter.Matcher
	handler   Handler

	// OS path of the vault root, used to map event names to vault paths
	root string

	// Debounce delay between the last event for a file and handling it
	debounceDelay time.Duration
	// Files created longer than this before their first event are ignored
	maxAge time.Duration
	// How long after a rename to ignore events for the renamed file
	eventCooldown time.Duration

	// Per-file timers for debounced handling
	pending      map[string]*pendingFile
	debounceChan chan string

	// Vault paths produced by the handler and when
	renamed map[string]time.Time

	// Channel for timestamped events from event goroutine
	eventChan chan TimestampedEvent

	dirs *WatchedDirs

	now       func() time.Time
	createdAt func(osPath string) (time.Time, error)

	// Closed when the watcher is stopping to unblock goroutines
	done chan struct{}
}

type pendingFile struct {
	timer     *time.Timer
	firstSeen time.Time
}

// TimestampedEvent wraps an fsnotify event with its receive time.
type TimestampedEvent struct {
	Event fsnotify.Event
	Time  time.Time
}

// New creates a Watcher for the vault behind filesystem and registers a
// watch on every folder of it.
func New(filesystem fs.FileSystem, matcher *filter.Matcher, cfg config.WatchConfig, handler Handler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := newWatcher(filesystem, fsw, matcher, cfg, handler)
	w.fsWatcher = fsw

	if err := w.dirs.AddTree(""); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func newWatcher(filesystem fs.FileSystem, fsw fsnotifyWatcher, matcher *filter.Matcher, cfg config.WatchConfig, handler Handler) *Watcher {
	return &Watcher{
		fs:            filesystem,
		matcher:       matcher,
		handler:       handler,
		root:          filesystem.RealPath(""),
		debounceDelay: cfg.Debounce,
		maxAge:        cfg.MaxAge,
		eventCooldown: 1 * time.Second,
		pending:       make(map[string]*pendingFile),
		debounceChan:  make(chan string),
		renamed:       make(map[string]time.Time),
		eventChan:     make(chan TimestampedEvent, 100),
		dirs:          NewWatchedDirs(filesystem, fsw),
		now:           time.Now,
		createdAt:     fileCreated,
		done:          make(chan struct{}),
	}
}

// eventLoop reads from fsnotify and timestamps events before forwarding.
func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			te := TimestampedEvent{
				Event: event,
				Time:  w.now(),
			}
			select {
			case w.eventChan <- te:
			case <-w.done:
				return
			}
		}
	}
}

// Run starts the watcher and blocks until context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	slog.Info("watcher started", "vault", w.root, "folders", w.dirs.WatchCount(), "debounce", w.debounceDelay)

	go w.eventLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("watcher stopping")
			close(w.done)
			for _, p := range w.pending {
				p.timer.Stop()
			}
			w.dirs.Destroy()
			return w.fsWatcher.Close()

		case event := <-w.eventChan:
			w.processEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", "error", err)

		case p := <-w.debounceChan:
			w.execute(ctx, p)
		}
	}
}

// WatchCount returns the number of folders currently being watched.
func (w *Watcher) WatchCount() int {
	return w.dirs.WatchCount()
}

func (w *Watcher) processEvent(te TimestampedEvent) {
	p, ok := w.vaultPath(te.Event.Name)
	if !ok {
		return
	}
	slog.Debug("processEvent", "path", p, "op", te.Event.Op)

	w.dirs.ProcessEvent(te.Event.Op, p)

	switch op := te.Event.Op; {
	case op&fsnotify.Create != 0:
		w.schedule(p, te.Time)
	case op&fsnotify.Write != 0:
		// still being written: wait for the last write
		if pf, ok := w.pending[p]; ok {
			pf.timer.Reset(w.debounceDelay)
		}
	case op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if pf, ok := w.pending[p]; ok {
			pf.timer.Stop()
			delete(w.pending, p)
		}
	}
}

// schedule handles p after the debounce delay, unless p is not an attachment
// or was just produced by a rename.
func (w *Watcher) schedule(p string, eventTime time.Time) {
	if skipFile(p) {
		return
	}
	// ProcessEvent has already added new folders to the watch list
	if w.dirs.Watching(p) {
		return
	}
	if info, err := w.fs.Stat(p); err == nil && info.IsDir() {
		return
	}

	// Time-based filtering: our own renames fire create events for the new name.
	if renamedAt, ok := w.renamed[p]; ok && eventTime.Before(renamedAt.Add(w.eventCooldown)) {
		slog.Debug("ignoring event during cooldown", "path", p)
		return
	}

	if pf, ok := w.pending[p]; ok {
		pf.timer.Reset(w.debounceDelay)
		return
	}

	slog.Debug("scheduling rename", "path", p)
	w.pending[p] = &pendingFile{
		timer: time.AfterFunc(w.debounceDelay, func() {
			select {
			case w.debounceChan <- p:
			case <-w.done:
			}
		}),
		firstSeen: eventTime,
	}
}

// execute passes a debounced file to the handler.
func (w *Watcher) execute(ctx context.Context, p string) {
	pf, ok := w.pending[p]
	if !ok {
		return
	}
	delete(w.pending, p)

	if !w.accept(p, pf.firstSeen) {
		return
	}

	dst, err := w.handler(ctx, p)
	if err != nil {
		slog.Error("rename failed", "path", p, "error", err)
		return
	}

	now := w.now()
	for renamed, at := range w.renamed {
		if now.Sub(at) > w.eventCooldown {
			delete(w.renamed, renamed)
		}
	}
	if dst != "" && dst != p {
		w.renamed[dst] = now
	}
}

// accept reports whether the file at p is a new attachment to rename.
// seen is when the first event for it arrived.
func (w *Watcher) accept(p string, seen time.Time) bool {
	if w.matcher.Ignored(p) {
		slog.Debug("ignoring file", "path", p, "reason", "ignore pattern")
		return false
	}

	info, err := w.fs.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}

	if w.maxAge <= 0 {
		return true
	}
	created, err := w.createdAt(w.fs.RealPath(p))
	if err != nil {
		slog.Warn("failed to read file times", "path", p, "error", err)
		return false
	}
	if age := seen.Sub(created); age > w.maxAge {
		// events for existing files, e.g. a folder moved into the vault
		slog.Debug("ignoring file", "path", p, "reason", "too old", "age", age)
		return false
	}
	return true
}

// vaultPath maps an OS path from an event to a vault path.
// It reports false for paths outside the vault.
func (w *Watcher) vaultPath(name string) (string, bool) {
	rel, err := filepath.Rel(w.root, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return vaultpath.Clean(filepath.ToSlash(rel)), true
}

// fileCreated returns the birth time of a file, or its change time where
// the platform does not record birth times.
func fileCreated(osPath string) (time.Time, error) {
	t, err := times.Stat(osPath)
	if err != nil {
		return time.Time{}, err
	}
	if t.HasBirthTime() {
		return t.BirthTime(), nil
	}
	if t.HasChangeTime() {
		return t.ChangeTime(), nil
	}
	return t.ModTime(), nil
}
