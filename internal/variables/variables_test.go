package variables

import (
	"testing"

	"github.com/prettymuchbryce/autorename/internal/config"
	"github.com/prettymuchbryce/autorename/internal/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestVariable(t *testing.T) {
	lit := Literal("x")
	assert.False(t, lit.IsLazy())
	assert.Equal(t, "x", lit.Value())

	calls := 0
	lazy := Lazy(func() string { calls++; return "y" })
	assert.True(t, lazy.IsLazy())
	assert.Equal(t, 0, calls, "lazy value must not be computed before use")
	assert.Equal(t, "y", lazy.Value())
	assert.Equal(t, "y", lazy.Value())
	assert.Equal(t, 2, calls)

	var zero Variable
	assert.Equal(t, "", zero.Value())
}

func TestBuild(t *testing.T) {
	note := &workspace.Note{
		Path:     "journal/2025/My Note.md",
		Headings: []workspace.Heading{{Text: "Intro", Line: 0}, {Text: "Details", Line: 10}},
		Cursor:   intPtr(4),
	}
	settings := config.DefaultSettings()
	settings.FolderValues = config.FolderValues{{Folder: "journal", Value: "J"}}

	ids := 0
	vars := Build("assets/Pasted image 1.png", workspace.Static{Note: note}, settings, func() string {
		ids++
		return "id"
	})

	tests := map[string]string{
		NoteName:   "My Note",
		DocName:    "My Note",
		NoteParent: "journal/2025",
		DocParent:  "journal/2025",
		SrcName:    "Pasted image 1",
		SrcParent:  "assets",
		Extension:  "png",
		Header:     "Intro",
		Separator:  "-",
		UUID:       "id",
		Custom:     "J",
	}
	for name, want := range tests {
		v, ok := vars[name]
		require.True(t, ok, "missing variable %s", name)
		assert.Equal(t, want, v.Value(), name)
	}

	assert.True(t, vars[Header].IsLazy())
	assert.True(t, vars[UUID].IsLazy())
	assert.True(t, vars[Custom].IsLazy())
	assert.Equal(t, 1, ids)
}

func TestBuild_NoActiveNote(t *testing.T) {
	settings := config.DefaultSettings()
	settings.FolderValues = config.FolderValues{{Folder: "", Value: "root"}}

	for _, provider := range []workspace.Provider{nil, workspace.Static{}} {
		vars := Build("a/b.png", provider, settings, func() string { return "id" })

		assert.Equal(t, "", vars[NoteName].Value())
		assert.Equal(t, "", vars[NoteParent].Value())
		assert.Equal(t, "", vars[Header].Value())
		assert.False(t, vars[Header].IsLazy())
		assert.Equal(t, "", vars[Custom].Value(), "no note folder means no folder value")
		assert.Equal(t, "b", vars[SrcName].Value())
	}
}

func TestBuild_NoOutline(t *testing.T) {
	note := &workspace.Note{Path: "Note.md", Cursor: intPtr(3)}
	vars := Build("x.png", workspace.Static{Note: note}, config.DefaultSettings(), nil)

	assert.False(t, vars[Header].IsLazy())
	assert.Equal(t, "", vars[Header].Value())
	assert.Equal(t, "Note", vars[NoteName].Value())
	assert.Equal(t, "", vars[NoteParent].Value())
}

func TestNearestHeading(t *testing.T) {
	headings := []workspace.Heading{
		{Text: "Late", Line: 20},
		{Text: "Intro", Line: 1},
		{Text: "Middle", Line: 8},
		{Text: "Duplicate", Line: 8},
	}

	tests := []struct {
		name   string
		cursor *int
		want   string
	}{
		{"no cursor", nil, ""},
		{"above all headings", intPtr(0), ""},
		{"on heading line", intPtr(1), "Intro"},
		{"between", intPtr(5), "Intro"},
		{"equal distance keeps first", intPtr(9), "Middle"},
		{"unsorted input", intPtr(25), "Late"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NearestHeading(headings, tt.cursor))
		})
	}

	assert.Equal(t, "", NearestHeading(nil, intPtr(3)))
}

func TestFolderValue(t *testing.T) {
	values := config.FolderValues{
		{Folder: "foo", Value: "A"},
		{Folder: "foo/bar/baz", Value: "B"},
		{Folder: "other", Value: "C"},
	}

	tests := []struct {
		name   string
		values config.FolderValues
		folder string
		want   string
	}{
		{"deepest prefix wins", values, "foo/bar/baz/qux", "B"},
		{"shallow match", values, "foo/bar", "A"},
		{"exact", values, "other", "C"},
		{"no match", values, "nothing", ""},
		{"empty folder", values, "", ""},
		{"string prefix quirk", config.FolderValues{{Folder: "foo/ba", Value: "Q"}}, "foo/bar/baz", "Q"},
		{"tie keeps first", config.FolderValues{{Folder: "a/b", Value: "1"}, {Folder: "a/bc", Value: "2"}}, "a/bcd", "1"},
		{"tie order", config.FolderValues{{Folder: "a/b", Value: "1"}, {Folder: "a/b", Value: "2"}}, "a/b/c", "1"},
		{"empty key matches all", config.FolderValues{{Folder: "", Value: "root"}}, "x/y", "root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FolderValue(tt.values, tt.folder))
		})
	}
}
