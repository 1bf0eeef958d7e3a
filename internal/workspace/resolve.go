package workspace

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/prettymuchbryce/autorename/internal/vaultpath"

	"github.com/spf13/afero"
)

// LinkStyle is the form a link target was written in.
type LinkStyle int

const (
	StyleName     LinkStyle = iota // "image.png", resolved by name anywhere in the vault
	StyleAbsolute                  // "assets/image.png", a path from the vault root
	StyleRelative                  // "../assets/image.png", relative to the note
)

// Resolver resolves link targets to vault paths.
// It caches a listing of the vault, updated through Moved and Removed.
type Resolver struct {
	fs    afero.Fs
	files []string // sorted vault paths of all files, nil until loaded
}

// NewResolver returns a Resolver for the vault filesystem afs.
func NewResolver(afs afero.Fs) *Resolver {
	return &Resolver{fs: afs}
}

// Files returns the vault paths of all files, sorted.
// Hidden folders such as .obsidian or .trash are skipped.
func (r *Resolver) Files() ([]string, error) {
	if r.files != nil {
		return r.files, nil
	}

	files := []string{}
	err := afero.Walk(r.fs, "", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		name := info.Name()
		if info.IsDir() {
			if p != "" && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}
		files = append(files, vaultpath.Clean(filepath.ToSlash(p)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	r.files = files
	return files, nil
}

// Refresh drops the cached listing. The next lookup walks the vault again.
func (r *Resolver) Refresh() {
	r.files = nil
}

// Notes returns the vault paths of all markdown notes.
func (r *Resolver) Notes() ([]string, error) {
	files, err := r.Files()
	if err != nil {
		return nil, err
	}

	var notes []string
	for _, f := range files {
		if IsNote(f) {
			notes = append(notes, f)
		}
	}
	return notes, nil
}

// Moved records that the file at from is now at to.
func (r *Resolver) Moved(from, to string) {
	if r.files == nil {
		return
	}
	r.remove(from)
	i := sort.SearchStrings(r.files, to)
	if i < len(r.files) && r.files[i] == to {
		return
	}
	r.files = append(r.files, "")
	copy(r.files[i+1:], r.files[i:])
	r.files[i] = to
}

// Removed records that the file at p no longer exists.
func (r *Resolver) Removed(p string) {
	if r.files == nil {
		return
	}
	r.remove(p)
}

func (r *Resolver) remove(p string) {
	i := sort.SearchStrings(r.files, p)
	if i < len(r.files) && r.files[i] == p {
		r.files = append(r.files[:i], r.files[i+1:]...)
	}
}

func (r *Resolver) exists(p string) bool {
	files, err := r.Files()
	if err != nil {
		return false
	}
	i := sort.SearchStrings(files, p)
	return i < len(files) && files[i] == p
}

// Resolve returns the vault path of the file target points to from notePath.
// Targets are tried relative to the note when they start with "./" or "../",
// then as a vault path, then relative to the note folder, then by name.
// Among several files with the same name the shortest path wins.
func (r *Resolver) Resolve(target, notePath string) (string, LinkStyle, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", StyleName, false
	}
	noteDir := vaultpath.Parse(notePath).Parent

	if strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../") {
		if p, ok := relativeTo(noteDir, target); ok && r.exists(p) {
			return p, StyleRelative, true
		}
		return "", StyleRelative, false
	}

	style := StyleAbsolute
	if !strings.Contains(target, "/") {
		style = StyleName
	}

	if p := vaultpath.Clean(target); r.exists(p) {
		return p, style, true
	}
	if noteDir != "" {
		if p, ok := relativeTo(noteDir, target); ok && r.exists(p) {
			return p, StyleRelative, true
		}
	}

	files, err := r.Files()
	if err != nil {
		return "", style, false
	}

	candidates := []string{vaultpath.Clean(target)}
	if vaultpath.Parse(target).Extension == "" {
		candidates = append(candidates, vaultpath.Clean(target)+".md")
	}
	best := ""
	for _, f := range files {
		for _, c := range candidates {
			if f != c && !strings.HasSuffix(f, "/"+c) {
				continue
			}
			if best == "" || len(f) < len(best) {
				best = f
			}
		}
	}
	if best == "" {
		return "", style, false
	}
	return best, style, true
}

// Target returns the link target for the file p seen from notePath, written
// in the given style. Name style falls back to the vault path when the name
// is not unique.
func (r *Resolver) Target(style LinkStyle, p, notePath string) string {
	switch style {
	case StyleRelative:
		return relativePath(vaultpath.Parse(notePath).Parent, p)
	case StyleName:
		name := vaultpath.Parse(p).Name()
		if r.uniqueName(name) {
			return name
		}
	}
	return p
}

func (r *Resolver) uniqueName(name string) bool {
	files, err := r.Files()
	if err != nil {
		return false
	}
	n := 0
	for _, f := range files {
		if f == name || strings.HasSuffix(f, "/"+name) {
			n++
		}
	}
	return n <= 1
}

// IsNote reports whether the vault path is a markdown note.
func IsNote(p string) bool {
	return strings.EqualFold(path.Ext(p), ".md")
}

// relativeTo joins a note-relative target onto dir.
// It fails when the result escapes the vault.
func relativeTo(dir, target string) (string, bool) {
	joined := path.Join(dir, target)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", false
	}
	return vaultpath.Clean(joined), true
}

// relativePath returns the path of p relative to the folder dir.
func relativePath(dir, p string) string {
	from := vaultpath.Split(dir)
	to := vaultpath.Split(p)

	common := 0
	for common < len(from) && common < len(to)-1 && from[common] == to[common] {
		common++
	}

	parts := make([]string, 0, len(from)-common+len(to)-common)
	for range from[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[common:]...)
	return strings.Join(parts, "/")
}
