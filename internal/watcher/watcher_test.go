package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/prettymuchbryce/autorename/internal/config"
	"github.com/prettymuchbryce/autorename/internal/filter"
	"github.com/prettymuchbryce/autorename/internal/fs"
)

type handled struct {
	paths []string
	dst   string
	err   error
}

func (h *handled) handle(ctx context.Context, p string) (string, error) {
	h.paths = append(h.paths, p)
	return h.dst, h.err
}

func newTestWatcher(t *testing.T, filesystem fs.FileSystem, settings config.Settings, cfg config.WatchConfig, h *handled) *Watcher {
	t.Helper()
	w := newWatcher(filesystem, newMockFsWatcher(), filter.New(filesystem, settings), cfg, h.handle)
	t.Cleanup(func() {
		for _, pf := range w.pending {
			pf.timer.Stop()
		}
		close(w.done)
	})
	return w
}

func event(filesystem fs.FileSystem, p string, op fsnotify.Op, at time.Time) TimestampedEvent {
	return TimestampedEvent{
		Event: fsnotify.Event{Name: filesystem.RealPath(p), Op: op},
		Time:  at,
	}
}

func waitDebounced(t *testing.T, w *Watcher) string {
	t.Helper()
	select {
	case p := <-w.debounceChan:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounce")
		return ""
	}
}

func TestWatcher_VaultPath(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, fs.NewReal(root), config.DefaultSettings(), config.DefaultWatchConfig(), &handled{})

	tests := []struct {
		name   string
		want   string
		wantOk bool
	}{
		{filepath.Join(root, "assets", "a.png"), "assets/a.png", true},
		{root, "", true},
		{filepath.Dir(root), "", false},
		{filepath.Join(filepath.Dir(root), "elsewhere", "a.png"), "", false},
	}
	for _, tt := range tests {
		got, ok := w.vaultPath(tt.name)
		if got != tt.want || ok != tt.wantOk {
			t.Errorf("vaultPath(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestWatcher_Accept(t *testing.T) {
	seen := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		path    string
		created time.Time
		err     error
		maxAge  time.Duration
		want    bool
	}{
		{name: "new file", path: "assets/a.png", created: seen.Add(-100 * time.Millisecond), maxAge: time.Second, want: true},
		{name: "created after the event", path: "assets/a.png", created: seen.Add(time.Millisecond), maxAge: time.Second, want: true},
		{name: "old file", path: "assets/a.png", created: seen.Add(-time.Hour), maxAge: time.Second, want: false},
		{name: "age guard disabled", path: "assets/a.png", created: seen.Add(-time.Hour), want: true},
		{name: "times unavailable", path: "assets/a.png", err: errors.New("stat failed"), maxAge: time.Second, want: false},
		{name: "ignored", path: "private/b.png", created: seen, maxAge: time.Second, want: false},
		{name: "missing", path: "assets/missing.png", created: seen, maxAge: time.Second, want: false},
		{name: "folder", path: "assets", created: seen, maxAge: time.Second, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filesystem := fs.NewMemTest()
			filesystem.MustWriteFile("assets/a.png", "png")
			filesystem.MustWriteFile("private/b.png", "png")

			settings := config.DefaultSettings()
			settings.Ignore = []config.IgnorePattern{{Regex: regexp.MustCompile("^private/")}}

			w := newTestWatcher(t, filesystem, settings, config.WatchConfig{MaxAge: tt.maxAge}, &handled{})
			w.createdAt = func(string) (time.Time, error) { return tt.created, tt.err }

			if got := w.accept(tt.path, seen); got != tt.want {
				t.Errorf("accept(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestWatcher_DebounceAndCooldown(t *testing.T) {
	filesystem := fs.NewMemTest()
	filesystem.MustWriteFile("assets/Pasted image.png", "png")
	h := &handled{dst: "assets/Note.png"}

	w := newTestWatcher(t, filesystem, config.DefaultSettings(), config.WatchConfig{Debounce: 10 * time.Millisecond, MaxAge: time.Second}, h)
	w.createdAt = func(string) (time.Time, error) { return time.Now(), nil }

	now := time.Now()
	w.processEvent(event(filesystem, "assets/Pasted image.png", fsnotify.Create, now))
	w.processEvent(event(filesystem, "assets/Pasted image.png", fsnotify.Write, now))
	w.processEvent(event(filesystem, "notes/Note.md", fsnotify.Create, now))

	if len(w.pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(w.pending))
	}

	p := waitDebounced(t, w)
	if p != "assets/Pasted image.png" {
		t.Fatalf("debounced %q", p)
	}
	w.execute(context.Background(), p)

	if len(h.paths) != 1 || h.paths[0] != "assets/Pasted image.png" {
		t.Fatalf("handler calls = %v", h.paths)
	}

	// the rename itself fires a create event for the new name
	w.processEvent(event(filesystem, "assets/Note.png", fsnotify.Create, time.Now()))
	if len(w.pending) != 0 {
		t.Errorf("create event for renamed file should be ignored during cooldown")
	}

	// later events for the same name are handled again
	w.processEvent(event(filesystem, "assets/Note.png", fsnotify.Create, time.Now().Add(2*time.Second)))
	if len(w.pending) != 1 {
		t.Errorf("create event after cooldown should be scheduled")
	}
}

func TestWatcher_RemoveCancelsPending(t *testing.T) {
	filesystem := fs.NewMemTest()
	h := &handled{}
	w := newTestWatcher(t, filesystem, config.DefaultSettings(), config.WatchConfig{Debounce: time.Hour}, h)

	now := time.Now()
	w.processEvent(event(filesystem, "a.png", fsnotify.Create, now))
	w.processEvent(event(filesystem, "a.png", fsnotify.Remove, now))

	if len(w.pending) != 0 {
		t.Errorf("pending = %d, want 0", len(w.pending))
	}
	w.execute(context.Background(), "a.png")
	if len(h.paths) != 0 {
		t.Errorf("handler should not run for cancelled files, got %v", h.paths)
	}
}

func TestWatcher_HandlerError(t *testing.T) {
	filesystem := fs.NewMemTest()
	filesystem.MustWriteFile("a.png", "png")
	h := &handled{err: errors.New("boom")}
	w := newTestWatcher(t, filesystem, config.DefaultSettings(), config.WatchConfig{Debounce: time.Millisecond}, h)

	w.processEvent(event(filesystem, "a.png", fsnotify.Create, time.Now()))
	w.execute(context.Background(), waitDebounced(t, w))

	if len(h.paths) != 1 {
		t.Fatalf("handler calls = %v", h.paths)
	}
	if len(w.renamed) != 0 {
		t.Errorf("failed renames should not start a cooldown")
	}
}

func TestWatcher_NewFolderIsWatched(t *testing.T) {
	filesystem := fs.NewMemTest()
	w := newTestWatcher(t, filesystem, config.DefaultSettings(), config.DefaultWatchConfig(), &handled{})

	filesystem.MustMkdirAll("new/sub")
	w.processEvent(event(filesystem, "new", fsnotify.Create, time.Now()))

	if !w.dirs.Watching("new/sub") {
		t.Error("expected new folders to be watched")
	}
	if len(w.pending) != 0 {
		t.Error("folders should not be scheduled for renaming")
	}
}

func TestWatcher_UnwatchableFolderIsNotScheduled(t *testing.T) {
	filesystem := fs.NewMemTest()
	mock := newMockFsWatcher()
	w := newWatcher(filesystem, mock, filter.New(filesystem, config.DefaultSettings()), config.DefaultWatchConfig(), (&handled{}).handle)
	t.Cleanup(func() {
		for _, pf := range w.pending {
			pf.timer.Stop()
		}
		close(w.done)
	})

	mock.addErr = errors.New("too many open files")
	filesystem.MustMkdirAll("new")
	w.processEvent(event(filesystem, "new", fsnotify.Create, time.Now()))

	if w.dirs.Watching("new") {
		t.Fatal("folder should not be watched when fsnotify refuses it")
	}
	if len(w.pending) != 0 {
		t.Error("folders should not be scheduled for renaming")
	}
}

func TestFileCreated(t *testing.T) {
	root := t.TempDir()
	filesystem := fs.NewReal(root)
	if err := afero.WriteFile(filesystem, "a.png", []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	created, err := fileCreated(filesystem.RealPath("a.png"))
	if err != nil {
		t.Fatalf("fileCreated() error = %v", err)
	}
	if age := time.Since(created); age < -time.Minute || age > time.Minute {
		t.Errorf("fileCreated() = %v, expected a recent time", created)
	}

	if _, err := fileCreated(filesystem.RealPath("missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}
