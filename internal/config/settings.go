package config

import (
	"fmt"
	"regexp"

	"github.com/prettymuchbryce/autorename/internal/vaultpath"

	"gopkg.in/yaml.v3"
)

// DefaultNameTemplate is used when no name_template is configured.
const DefaultNameTemplate = "{srcParent}/{custom-}{noteName}"

// SpaceReplacementNone is the space_replacement value that removes spaces.
// An empty space_replacement disables the replacement instead.
const SpaceReplacementNone = "NONE"

// Transform is a case transform applied to the rendered name.
type Transform string

const (
	TransformNone  Transform = ""
	TransformUpper Transform = "upper"
	TransformLower Transform = "lower"
)

// DateStyle selects the pattern syntax of {DATE:...} placeholders.
type DateStyle string

const (
	DateStyleMoment   DateStyle = "moment"   // YYYY-MM-DD
	DateStyleStrftime DateStyle = "strftime" // %Y-%m-%d
)

// Settings are the rename settings read by the template engine and renamer.
type Settings struct {
	NameTemplate     string       `yaml:"name_template"`
	Separator        string       `yaml:"separator"`
	SpaceReplacement string       `yaml:"space_replacement"`
	AlwaysNumber     bool         `yaml:"always_number"`
	NumberPadding    int          `yaml:"number_padding"`
	TransformName    Transform    `yaml:"transform_name"`
	DateFormat       DateStyle    `yaml:"date_format"`
	FolderValues     FolderValues `yaml:"folder_values"`

	Ignore    []IgnorePattern `yaml:"ignore"`
	MimeTypes StringList      `yaml:"mime_types"` // empty allows every type

	CreateMissingDirs bool `yaml:"create_missing_dirs"`
	DeleteOnCancel    bool `yaml:"delete_on_cancel"`
	ConfirmRename     bool `yaml:"confirm_rename"`
	ConfirmRenameAll  bool `yaml:"confirm_rename_all"`
}

// DefaultSettings returns the default rename settings.
func DefaultSettings() Settings {
	return Settings{
		NameTemplate:     DefaultNameTemplate,
		Separator:        "-",
		DateFormat:       DateStyleMoment,
		ConfirmRename:    true,
		ConfirmRenameAll: true,
	}
}

// Normalize applies defaults and clamps out-of-range values.
// It is the only place settings are corrected; everything downstream trusts them.
func (s *Settings) Normalize() {
	if s.NumberPadding < 0 {
		s.NumberPadding = 0
	}

	switch s.TransformName {
	case TransformUpper, TransformLower:
	default:
		s.TransformName = TransformNone
	}

	switch s.DateFormat {
	case DateStyleMoment, DateStyleStrftime:
	default:
		s.DateFormat = DateStyleMoment
	}

	for i := range s.FolderValues {
		s.FolderValues[i].Folder = vaultpath.Clean(s.FolderValues[i].Folder)
	}
}

// RenderOpts returns the numbering options for vaultpath rendering.
func (s Settings) RenderOpts() vaultpath.RenderOpts {
	return vaultpath.RenderOpts{
		Separator:     s.Separator,
		AlwaysNumber:  s.AlwaysNumber,
		NumberPadding: s.NumberPadding,
	}
}

// IgnorePattern matches vault paths that should never be renamed.
// Exactly one of Glob or Regex is set.
type IgnorePattern struct {
	Glob  string
	Regex *regexp.Regexp
}

// UnmarshalYAML supports:
//   - "- '\.(docx|pptx)$'" (regex shorthand)
//   - "- {regex: '^private/'}"
//   - "- {glob: 'templates/**'}"
func (p *IgnorePattern) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Glob  string `yaml:"glob"`
		Regex string `yaml:"regex"`
	}

	if node.Kind == yaml.ScalarNode {
		if err := node.Decode(&raw.Regex); err != nil {
			return err
		}
	} else if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.Glob != "" && raw.Regex != "" {
		return fmt.Errorf("ignore pattern cannot have both glob and regex")
	}
	if raw.Glob == "" && raw.Regex == "" {
		return fmt.Errorf("ignore pattern requires glob or regex")
	}

	if raw.Regex != "" {
		re, err := regexp.Compile(raw.Regex)
		if err != nil {
			return fmt.Errorf("invalid regex pattern %q: %w", raw.Regex, err)
		}
		p.Regex = re
		return nil
	}

	p.Glob = raw.Glob
	return nil
}

// MarshalYAML writes the pattern back in the form it was read.
func (p IgnorePattern) MarshalYAML() (any, error) {
	if p.Regex != nil {
		return p.Regex.String(), nil
	}
	return map[string]string{"glob": p.Glob}, nil
}

// String returns a readable form of the pattern for logs.
func (p IgnorePattern) String() string {
	if p.Regex != nil {
		return "regex:" + p.Regex.String()
	}
	return "glob:" + p.Glob
}

// StringList handles YAML fields that can be a single string or a list of strings.
type StringList []string

func (s *StringList) UnmarshalYAML(unmarshal func(any) error) error {
	// Try single string first
	var single string
	if err := unmarshal(&single); err == nil {
		*s = []string{single}
		return nil
	}

	// Try list of strings
	var list []string
	if err := unmarshal(&list); err != nil {
		return err
	}
	*s = list
	return nil
}
