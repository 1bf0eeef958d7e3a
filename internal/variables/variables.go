// Package variables builds the variable set a name template is rendered with.
package variables

import (
	"strings"

	"github.com/prettymuchbryce/autorename/internal/config"
	"github.com/prettymuchbryce/autorename/internal/vaultpath"
	"github.com/prettymuchbryce/autorename/internal/workspace"
)

// Variable is a template value that is either a fixed string or computed
// when the template uses it.
type Variable struct {
	literal string
	lazy    func() string
}

// Literal returns a Variable with a fixed value.
func Literal(value string) Variable {
	return Variable{literal: value}
}

// Lazy returns a Variable whose value is computed by fn on every Value call.
func Lazy(fn func() string) Variable {
	return Variable{lazy: fn}
}

// IsLazy reports whether the value is computed on demand.
func (v Variable) IsLazy() bool {
	return v.lazy != nil
}

// Value returns the value of the variable.
func (v Variable) Value() string {
	if v.lazy != nil {
		return v.lazy()
	}
	return v.literal
}

// Set maps variable names to their values. A Set belongs to one render.
type Set map[string]Variable

// Names of the variables every Set contains.
const (
	NoteName   = "noteName"
	DocName    = "docName"
	NoteParent = "noteParent"
	DocParent  = "docParent"
	SrcName    = "srcName"
	SrcParent  = "srcParent"
	Extension  = "extension"
	Header     = "header"
	Separator  = "separator"
	UUID       = "uuid"
	Custom     = "custom"
)

// Build returns the variables for renaming the attachment at src.
// active may return no note, in which case the note variables are empty.
// newID generates the {uuid} value.
func Build(src string, active workspace.Provider, settings config.Settings, newID func() string) Set {
	var note *workspace.Note
	if active != nil {
		note = active.ActiveNote()
	}
	source := vaultpath.Parse(src)

	var noteName, noteParent string
	header := Literal("")
	if note != nil {
		noteName = note.Basename()
		noteParent = note.Parent()
		if note.HasOutline() {
			header = Lazy(func() string { return NearestHeading(note.Headings, note.Cursor) })
		}
	}

	folderValues := settings.FolderValues
	return Set{
		NoteName:   Literal(noteName),
		DocName:    Literal(noteName),
		NoteParent: Literal(noteParent),
		DocParent:  Literal(noteParent),
		SrcName:    Literal(source.Basename),
		SrcParent:  Literal(source.Parent),
		Extension:  Literal(source.Extension),
		Header:     header,
		Separator:  Literal(settings.Separator),
		UUID:       Lazy(newID),
		Custom:     Lazy(func() string { return FolderValue(folderValues, noteParent) }),
	}
}

// NearestHeading returns the text of the heading nearest above the cursor line.
// It returns "" without a cursor or when every heading is below it.
// Headings need not be sorted; on equal distance the first one wins.
func NearestHeading(headings []workspace.Heading, cursor *int) string {
	if len(headings) == 0 || cursor == nil {
		return ""
	}

	h := ""
	dist := -1
	for _, heading := range headings {
		d := *cursor - heading.Line
		if d < 0 {
			continue
		}
		if dist < 0 || d < dist {
			h = heading.Text
			dist = d
		}
	}
	return h
}

// FolderValue returns the configured value for folder. Keys match as plain
// string prefixes of folder, so "foo/ba" also matches "foo/bar". The key with
// the most "/"-separated segments wins; on a tie the first in order wins.
func FolderValue(values config.FolderValues, folder string) string {
	if folder == "" {
		return ""
	}

	rank := -1
	result := ""
	for _, fv := range values {
		if !strings.HasPrefix(folder, fv.Folder) {
			continue
		}
		if r := len(strings.Split(fv.Folder, "/")); r > rank {
			rank = r
			result = fv.Value
		}
	}
	return result
}
