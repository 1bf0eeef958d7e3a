package nametmpl

import (
	"testing"

	"github.com/prettymuchbryce/autorename/internal/config"
	"github.com/prettymuchbryce/autorename/internal/workspace"

	"github.com/stretchr/testify/assert"
)

type fixedDates struct{}

func (fixedDates) Format(pattern string) string { return "<" + pattern + ">" }

func intPtr(n int) *int { return &n }

func newEngine(settings config.Settings, note *workspace.Note) *Engine {
	return New(settings,
		WithContext(workspace.Static{Note: note}),
		WithDateFormatter(fixedDates{}),
		WithIDGenerator(func() string { return "0000" }),
	)
}

func TestEngine_Render(t *testing.T) {
	note := &workspace.Note{
		Path:     "notes/My Note.md",
		Headings: []workspace.Heading{{Text: "Intro", Line: 0}},
		Cursor:   intPtr(2),
	}

	tests := []struct {
		name     string
		template string
		src      string
		want     string
	}{
		{"default template, empty custom", config.DefaultNameTemplate, "assets/img.png", "assets/My Note"},
		{"conditional separators", "{-header-}{noteName}", "img.png", "-Intro-My Note"},
		{"prefix only", "{noteName}{-header}", "img.png", "My Note-Intro"},
		{"double braces", "{{srcName}}", "a/img.png", "img"},
		{"unbalanced open", "{{srcName}", "a/img.png", "img"},
		{"unbalanced close", "{srcName}}", "a/img.png", "img"},
		{"missing close", "{srcName", "a/img.png", "img"},
		{"inner whitespace", "{ srcName }", "a/img.png", "img"},
		{"aliases", "{docParent}/{docName}", "img.png", "notes/My Note"},
		{"source parts", "{srcParent}/{srcName}.{extension}", "a/b/c.jpeg", "a/b/c.jpeg"},
		{"unknown variable kept", "{foo}", "img.png", "{foo}"},
		{"unknown namespace empty", "x{FOO:bar}y", "img.png", "xy"},
		{"date", "{DATE:YYYY-MM-DD}", "img.png", "<YYYY-MM-DD>"},
		{"date ignores separator flags", "{-DATE:YYYY}", "img.png", "<YYYY>"},
		{"strftime date", "{DATE:%Y%m%d}", "img.png", "<%Y%m%d>"},
		{"date pattern stops at slash", "{DATE:YYYY/MM}", "img.png", "<YYYY>/MM}"},
		{"separator variable", "a{separator}b", "img.png", "a-b"},
		{"uuid", "{uuid}", "img.png", "0000"},
		{"literal text kept", "a\\b:c/{noteName}?", "img.png", "a\\b:c/My Note?"},
		{"no placeholders", "plain", "img.png", "plain"},
		{"empty template", "", "img.png", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := config.DefaultSettings()
			settings.NameTemplate = tt.template
			assert.Equal(t, tt.want, newEngine(settings, note).Render(tt.src))
		})
	}
}

func TestEngine_ConditionalSeparatorExample(t *testing.T) {
	note := &workspace.Note{
		Path:     "Note.md",
		Headings: []workspace.Heading{{Text: "Intro", Line: 0}},
		Cursor:   intPtr(0),
	}
	settings := config.DefaultSettings()
	settings.NameTemplate = "{header-}{noteName}"

	assert.Equal(t, "Intro-Note", newEngine(settings, note).Render("x.png"))

	settings.NameTemplate = "{-header-}{noteName}"
	note.Cursor = nil
	assert.Equal(t, "Note", newEngine(settings, note).Render("x.png"), "empty header leaves no separator")
}

func TestEngine_FolderValue(t *testing.T) {
	note := &workspace.Note{Path: "foo/bar/baz/qux/Note.md"}
	settings := config.DefaultSettings()
	settings.NameTemplate = "{custom-}{noteName}"
	settings.FolderValues = config.FolderValues{
		{Folder: "foo", Value: "A"},
		{Folder: "foo/bar/baz", Value: "B"},
	}

	assert.Equal(t, "B-Note", newEngine(settings, note).Render("x.png"))
}

func TestEngine_SpaceReplacement(t *testing.T) {
	note := &workspace.Note{Path: "My Folder/My Note.md"}

	tests := []struct {
		name        string
		replacement string
		want        string
	}{
		{"disabled", "", "My Folder/My Note 1"},
		{"none removes", config.SpaceReplacementNone, "My Folder/MyNote1"},
		{"underscore", "_", "My Folder/My_Note_1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := config.DefaultSettings()
			settings.NameTemplate = "{noteParent}/{noteName} 1"
			settings.SpaceReplacement = tt.replacement
			assert.Equal(t, tt.want, newEngine(settings, note).Render("x.png"))
		})
	}

	settings := config.DefaultSettings()
	settings.NameTemplate = "{noteName} x"
	settings.SpaceReplacement = "_"
	assert.Equal(t, "My_Note_x", newEngine(settings, note).Render("x.png"), "no folder means the whole name is the leaf")

	settings.NameTemplate = "a b/"
	assert.Equal(t, "a b/", newEngine(settings, note).Render("x.png"), "empty leaf")
}

func TestEngine_Transform(t *testing.T) {
	note := &workspace.Note{Path: "Folder/Note.md"}

	tests := []struct {
		transform config.Transform
		want      string
	}{
		{config.TransformNone, "Folder/Note Ä"},
		{config.TransformUpper, "Folder/NOTE Ä"},
		{config.TransformLower, "Folder/note ä"},
		{"title", "Folder/Note Ä"},
	}
	for _, tt := range tests {
		t.Run(string(tt.transform), func(t *testing.T) {
			settings := config.DefaultSettings()
			settings.NameTemplate = "{noteParent}/{noteName} Ä"
			settings.TransformName = tt.transform
			assert.Equal(t, tt.want, newEngine(settings, note).Render("x.png"))
		})
	}
}

func TestEngine_SpacesBeforeTransform(t *testing.T) {
	settings := config.DefaultSettings()
	settings.NameTemplate = "Dir A/{noteName}"
	settings.SpaceReplacement = "_"
	settings.TransformName = config.TransformLower

	e := newEngine(settings, &workspace.Note{Path: "My Note.md"})
	assert.Equal(t, "Dir A/my_note", e.Render("x.png"))
}

func TestEngine_LazyValues(t *testing.T) {
	calls := 0
	settings := config.DefaultSettings()
	settings.NameTemplate = "{noteName}"

	e := New(settings, WithIDGenerator(func() string { calls++; return "id" }))
	e.Render("x.png")
	assert.Equal(t, 0, calls, "uuid must not be generated when unused")

	settings.NameTemplate = "{uuid}-{uuid}"
	e.UpdateSettings(settings)
	assert.Equal(t, "id-id", e.Render("x.png"))
	assert.Equal(t, 2, calls)
}

func TestEngine_NoActiveNote(t *testing.T) {
	settings := config.DefaultSettings()
	e := New(settings, WithDateFormatter(fixedDates{}))
	assert.Equal(t, "a/", e.Render("a/b.png"))
}

func TestEngine_UpdateSettings(t *testing.T) {
	settings := config.DefaultSettings()
	settings.NameTemplate = "{DATE:YYYY}"
	e := New(settings)

	settings.DateFormat = config.DateStyleStrftime
	e.UpdateSettings(settings)
	assert.Equal(t, config.DateStyleStrftime, e.Settings().DateFormat)
	assert.Len(t, e.Render("x.png"), 4, "strftime formatter renders the literal pattern")
}

func TestParseVar(t *testing.T) {
	tests := []struct {
		token string
		want  parsedVar
	}{
		{"noteName", parsedVar{name: "noteName"}},
		{"-header-", parsedVar{name: "header", prefix: true, suffix: true}},
		{" - header", parsedVar{name: "header", prefix: true}},
		{"custom-", parsedVar{name: "custom", suffix: true}},
		{"DATE:YYYY-MM-DD", parsedVar{namespace: "DATE", name: "YYYY-MM-DD"}},
		{"DATE:a:b", parsedVar{namespace: "DATE", name: "a:b"}},
		{"-", parsedVar{prefix: true}},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, parseVar(tt.token))
		})
	}
}
