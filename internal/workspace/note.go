// Package workspace models the note a rename happens for: its headings,
// cursor position and attachment links.
package workspace

import (
	"fmt"
	"strings"

	"github.com/prettymuchbryce/autorename/internal/vaultpath"

	"github.com/spf13/afero"
)

// Heading is a markdown heading and the 0-based line it starts on.
type Heading struct {
	Text string
	Line int
}

// Note is the active note of a rename.
type Note struct {
	Path     string // vault path, e.g. "journal/2025/Note.md"
	Content  string
	Headings []Heading
	Cursor   *int // 0-based line, nil when unknown
}

// Basename returns the note name without extension.
func (n *Note) Basename() string {
	return vaultpath.Parse(n.Path).Basename
}

// Parent returns the folder of the note.
func (n *Note) Parent() string {
	return vaultpath.Parse(n.Path).Parent
}

// HasOutline reports whether the note has any headings.
func (n *Note) HasOutline() bool {
	return len(n.Headings) > 0
}

// Provider supplies the active note. ActiveNote returns nil when there is none.
type Provider interface {
	ActiveNote() *Note
}

// Static is a Provider that always returns the same note.
type Static struct {
	Note *Note
}

// ActiveNote implements Provider.
func (s Static) ActiveNote() *Note {
	return s.Note
}

// LoadNote reads a note from the vault and indexes its headings.
func LoadNote(afs afero.Fs, notePath string, cursor *int) (*Note, error) {
	notePath = vaultpath.Clean(notePath)
	data, err := afero.ReadFile(afs, notePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read note %s: %w", notePath, err)
	}

	content := string(data)
	return &Note{
		Path:     notePath,
		Content:  content,
		Headings: ParseHeadings(content),
		Cursor:   cursor,
	}, nil
}

// ParseHeadings returns the ATX headings of a markdown document in order.
// Headings inside fenced code blocks and YAML front matter are skipped.
func ParseHeadings(content string) []Heading {
	kinds := blocks(content)

	var headings []Heading
	for i, line := range strings.Split(content, "\n") {
		if kinds[i] != lineText {
			continue
		}
		if text, ok := atxHeading(strings.TrimRight(line, "\r")); ok {
			headings = append(headings, Heading{Text: text, Line: i})
		}
	}
	return headings
}

func atxHeading(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return "", false
	}

	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return "", false
	}

	rest := trimmed[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}

	text := strings.TrimSpace(rest)
	// closing sequence: "## Title ##"
	if stripped := strings.TrimRight(text, "#"); stripped != text {
		if stripped == "" || strings.HasSuffix(stripped, " ") || strings.HasSuffix(stripped, "\t") {
			text = strings.TrimSpace(stripped)
		}
	}
	return text, true
}
