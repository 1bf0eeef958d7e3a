// Package nametmpl renders attachment name templates such as
// "{srcParent}/{custom-}{noteName}".
package nametmpl

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/prettymuchbryce/autorename/internal/config"
	"github.com/prettymuchbryce/autorename/internal/dateformat"
	"github.com/prettymuchbryce/autorename/internal/ident"
	"github.com/prettymuchbryce/autorename/internal/variables"
	"github.com/prettymuchbryce/autorename/internal/workspace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// placeholderRe matches {name}, {{name}}, {{name} and {name}}. The closing
// braces may also be missing.
var placeholderRe = regexp.MustCompile(`\{\{?([\w\s:%.-]+)\}?\}?`)

// DateNamespace is the namespace of {DATE:pattern} placeholders.
const DateNamespace = "DATE"

// Engine renders name templates against the active note and a source path.
type Engine struct {
	settings config.Settings
	active   workspace.Provider
	dates    dateformat.Formatter
	newID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithContext sets the provider of the active note.
func WithContext(p workspace.Provider) Option {
	return func(e *Engine) { e.active = p }
}

// WithDateFormatter overrides the formatter for {DATE:...} placeholders.
func WithDateFormatter(f dateformat.Formatter) Option {
	return func(e *Engine) { e.dates = f }
}

// WithIDGenerator overrides the generator for {uuid}.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// New returns an Engine for settings.
func New(settings config.Settings, opts ...Option) *Engine {
	e := &Engine{
		settings: settings,
		active:   workspace.Static{},
		dates:    dateformat.New(settings.DateFormat),
		newID:    ident.NewUUID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UpdateSettings replaces the settings used by later renders.
// The date formatter follows the new date style.
func (e *Engine) UpdateSettings(settings config.Settings) {
	if settings.DateFormat != e.settings.DateFormat {
		e.dates = dateformat.New(settings.DateFormat)
	}
	e.settings = settings
}

// Settings returns the current settings.
func (e *Engine) Settings() config.Settings {
	return e.settings
}

// Render renders the name template for the attachment at src.
// Rendering never fails: unknown variables are kept as written.
func (e *Engine) Render(src string) string {
	return e.RenderTemplate(e.settings.NameTemplate, src)
}

// RenderTemplate is Render with an explicit template.
func (e *Engine) RenderTemplate(tmpl, src string) string {
	vars := variables.Build(src, e.active, e.settings, e.newID)

	rendered := placeholderRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		token := placeholderRe.FindStringSubmatch(match)[1]
		v := parseVar(token)

		if v.namespace != "" {
			if v.namespace == DateNamespace {
				return e.dates.Format(v.name)
			}
			return ""
		}

		value, ok := vars[v.name]
		if !ok {
			slog.Warn("unknown template variable", "name", v.name)
			return match
		}
		return e.renderVar(v, value.Value())
	})

	return e.applyTransform(e.replaceSpaces(rendered))
}

type parsedVar struct {
	namespace string
	name      string
	prefix    bool // "-" before the name: separator before a non-empty value
	suffix    bool // "-" after the name: separator after a non-empty value
}

func parseVar(token string) parsedVar {
	var v parsedVar

	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, token)

	if rest, ok := strings.CutPrefix(s, "-"); ok {
		s = rest
		v.prefix = true
	}
	if rest, ok := strings.CutSuffix(s, "-"); ok {
		s = rest
		v.suffix = true
	}

	if ns, name, ok := strings.Cut(s, ":"); ok {
		v.namespace = ns
		s = name
	}

	v.name = s
	return v
}

func (e *Engine) renderVar(v parsedVar, value string) string {
	if value == "" {
		return ""
	}

	sep := e.settings.Separator
	if v.prefix {
		value = sep + value
	}
	if v.suffix {
		value += sep
	}
	return value
}

// replaceSpaces replaces whitespace in the last path segment.
func (e *Engine) replaceSpaces(rendered string) string {
	replacement := e.settings.SpaceReplacement
	if replacement == "" {
		return rendered
	}
	if replacement == config.SpaceReplacementNone {
		replacement = ""
	}

	return mapLeaf(rendered, func(leaf string) string {
		var b strings.Builder
		for _, r := range leaf {
			if unicode.IsSpace(r) {
				b.WriteString(replacement)
				continue
			}
			b.WriteRune(r)
		}
		return b.String()
	})
}

// applyTransform changes the case of the last path segment.
func (e *Engine) applyTransform(rendered string) string {
	var caser cases.Caser
	switch e.settings.TransformName {
	case config.TransformUpper:
		caser = cases.Upper(language.Und)
	case config.TransformLower:
		caser = cases.Lower(language.Und)
	default:
		return rendered
	}

	return mapLeaf(rendered, caser.String)
}

// mapLeaf applies fn to the part of p after its last "/".
func mapLeaf(p string, fn func(string) string) string {
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return fn(p)
	}
	if i == len(p)-1 {
		return p
	}
	return p[:i+1] + fn(p[i+1:])
}
