package workspace

import (
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func newVault(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	afs := afero.NewBasePathFs(afero.NewMemMapFs(), "/")
	for p, content := range files {
		if err := afero.WriteFile(afs, p, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return afs
}

func TestParseHeadings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Heading
	}{
		{
			name:    "levels",
			content: "# One\ntext\n## Two\n###### Six\n####### Seven",
			want:    []Heading{{"One", 0}, {"Two", 2}, {"Six", 3}},
		},
		{
			name:    "closing sequence",
			content: "## Title ##\n# C#",
			want:    []Heading{{"Title", 0}, {"C#", 1}},
		},
		{
			name:    "requires space",
			content: "#tag\n# ok",
			want:    []Heading{{"ok", 1}},
		},
		{
			name:    "indented",
			content: "   # three\n    # four",
			want:    []Heading{{"three", 0}},
		},
		{
			name:    "fenced code skipped",
			content: "# Intro\n```sh\n# comment\n```\n# After",
			want:    []Heading{{"Intro", 0}, {"After", 4}},
		},
		{
			name:    "longer closing fence",
			content: "````\n```\n# inside\n````\n# out",
			want:    []Heading{{"out", 4}},
		},
		{
			name:    "front matter skipped",
			content: "---\ntitle: x\n# not a heading\n---\n# Real",
			want:    []Heading{{"Real", 4}},
		},
		{
			name:    "unterminated front matter",
			content: "---\n# Heading",
			want:    []Heading{{"Heading", 1}},
		},
		{
			name:    "crlf",
			content: "# One\r\ntext\r\n## Two\r\n",
			want:    []Heading{{"One", 0}, {"Two", 2}},
		},
		{
			name:    "none",
			content: "plain text",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseHeadings(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseHeadings() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadNote(t *testing.T) {
	afs := newVault(t, map[string]string{
		"journal/Note.md": "# Intro\nsome text\n## Details\n",
	})
	cursor := 2

	note, err := LoadNote(afs, "journal//Note.md", &cursor)
	if err != nil {
		t.Fatalf("LoadNote() error = %v", err)
	}

	if note.Path != "journal/Note.md" {
		t.Errorf("Path = %q, want %q", note.Path, "journal/Note.md")
	}
	if note.Basename() != "Note" {
		t.Errorf("Basename() = %q, want %q", note.Basename(), "Note")
	}
	if note.Parent() != "journal" {
		t.Errorf("Parent() = %q, want %q", note.Parent(), "journal")
	}
	if !note.HasOutline() {
		t.Error("HasOutline() = false, want true")
	}
	if len(note.Headings) != 2 {
		t.Errorf("Headings = %v, want 2 headings", note.Headings)
	}
	if note.Cursor == nil || *note.Cursor != 2 {
		t.Errorf("Cursor = %v, want 2", note.Cursor)
	}
}

func TestLoadNote_Missing(t *testing.T) {
	afs := newVault(t, nil)
	if _, err := LoadNote(afs, "missing.md", nil); err == nil {
		t.Error("expected error for missing note")
	}
}

func TestStatic(t *testing.T) {
	note := &Note{Path: "Note.md"}
	if got := (Static{Note: note}).ActiveNote(); got != note {
		t.Errorf("ActiveNote() = %v, want %v", got, note)
	}
	if got := (Static{}).ActiveNote(); got != nil {
		t.Errorf("ActiveNote() = %v, want nil", got)
	}
}
