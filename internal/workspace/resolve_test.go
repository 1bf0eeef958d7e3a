package workspace

import (
	"testing"

	"github.com/spf13/afero"
)

func TestResolver_Resolve(t *testing.T) {
	afs := newVault(t, map[string]string{
		"notes/Note.md":         "",
		"notes/local.png":       "",
		"assets/image.png":      "",
		"deep/nested/image.png": "",
		"other/shared.pdf":      "",
		"Other.md":              "",
		".obsidian/hidden.png":  "",
	})
	r := NewResolver(afs)

	tests := []struct {
		target    string
		wantPath  string
		wantStyle LinkStyle
		wantOK    bool
	}{
		{"assets/image.png", "assets/image.png", StyleAbsolute, true},
		{"image.png", "assets/image.png", StyleName, true},
		{"local.png", "notes/local.png", StyleRelative, true},
		{"./local.png", "notes/local.png", StyleRelative, true},
		{"../other/shared.pdf", "other/shared.pdf", StyleRelative, true},
		{"nested/image.png", "deep/nested/image.png", StyleAbsolute, true},
		{"Other", "Other.md", StyleName, true},
		{"hidden.png", "", StyleName, false},
		{"missing.png", "", StyleName, false},
		{"../../escape.png", "", StyleRelative, false},
		{"", "", StyleName, false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, style, ok := r.Resolve(tt.target, "notes/Note.md")
			if ok != tt.wantOK || got != tt.wantPath {
				t.Fatalf("Resolve(%q) = (%q, %v), want (%q, %v)", tt.target, got, ok, tt.wantPath, tt.wantOK)
			}
			if ok && style != tt.wantStyle {
				t.Errorf("Resolve(%q) style = %v, want %v", tt.target, style, tt.wantStyle)
			}
		})
	}
}

func TestResolver_Notes(t *testing.T) {
	afs := newVault(t, map[string]string{
		"a.md":        "",
		"b/c.MD":      "",
		"b/img.png":   "",
		".trash/x.md": "",
	})
	notes, err := NewResolver(afs).Notes()
	if err != nil {
		t.Fatalf("Notes() error = %v", err)
	}
	if len(notes) != 2 || notes[0] != "a.md" || notes[1] != "b/c.MD" {
		t.Errorf("Notes() = %v", notes)
	}
}

func TestResolver_MovedRemoved(t *testing.T) {
	afs := newVault(t, map[string]string{"a.png": "", "b.png": ""})
	r := NewResolver(afs)

	if _, _, ok := r.Resolve("a.png", "Note.md"); !ok {
		t.Fatal("expected a.png to resolve")
	}

	r.Moved("a.png", "dir/c.png")
	if _, _, ok := r.Resolve("a.png", "Note.md"); ok {
		t.Error("a.png should no longer resolve")
	}
	if p, _, ok := r.Resolve("c.png", "Note.md"); !ok || p != "dir/c.png" {
		t.Errorf("Resolve(c.png) = %q, %v", p, ok)
	}

	r.Removed("b.png")
	files, _ := r.Files()
	if len(files) != 1 || files[0] != "dir/c.png" {
		t.Errorf("Files() = %v", files)
	}
}

func TestResolver_Refresh(t *testing.T) {
	afs := newVault(t, map[string]string{"a.png": ""})
	r := NewResolver(afs)

	if _, _, ok := r.Resolve("a.png", "Note.md"); !ok {
		t.Fatal("expected a.png to resolve")
	}

	if err := afero.WriteFile(afs, "new.png", nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := r.Resolve("new.png", "Note.md"); ok {
		t.Error("new.png should not resolve before Refresh")
	}

	r.Refresh()
	if _, _, ok := r.Resolve("new.png", "Note.md"); !ok {
		t.Error("new.png should resolve after Refresh")
	}
}

func TestResolver_Target(t *testing.T) {
	afs := newVault(t, map[string]string{
		"a/pic.png":    "",
		"b/pic.png":    "",
		"a/unique.png": "",
	})
	r := NewResolver(afs)

	tests := []struct {
		name  string
		style LinkStyle
		path  string
		note  string
		want  string
	}{
		{"unique name", StyleName, "a/unique.png", "x/Note.md", "unique.png"},
		{"ambiguous name", StyleName, "a/pic.png", "x/Note.md", "a/pic.png"},
		{"absolute", StyleAbsolute, "a/unique.png", "x/Note.md", "a/unique.png"},
		{"relative sibling", StyleRelative, "a/unique.png", "a/Note.md", "unique.png"},
		{"relative up", StyleRelative, "a/unique.png", "x/y/Note.md", "../../a/unique.png"},
		{"relative root note", StyleRelative, "a/unique.png", "Note.md", "a/unique.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Target(tt.style, tt.path, tt.note); got != tt.want {
				t.Errorf("Target() = %q, want %q", got, tt.want)
			}
		})
	}
}
