// Package filter decides which attachments may be renamed.
package filter

import (
	"fmt"
	"strings"

	"github.com/prettymuchbryce/autorename/internal/config"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "jfif": true, "pjpeg": true, "pjp": true,
	"png": true, "gif": true, "webp": true, "bmp": true, "ico": true,
	"cur": true, "avif": true, "heif": true, "heic": true,
}

// Matcher applies the ignore and mime_types settings to vault paths.
type Matcher struct {
	fs        afero.Fs
	ignore    []config.IgnorePattern
	mimeTypes []string
}

// New returns a Matcher reading file contents from afs.
func New(afs afero.Fs, settings config.Settings) *Matcher {
	return &Matcher{
		fs:        afs,
		ignore:    settings.Ignore,
		mimeTypes: settings.MimeTypes,
	}
}

// Validate checks that every glob in the settings is well formed.
func Validate(settings config.Settings) error {
	for _, p := range settings.Ignore {
		if p.Regex == nil && !doublestar.ValidatePattern(p.Glob) {
			return fmt.Errorf("invalid ignore glob %q", p.Glob)
		}
	}
	for _, p := range settings.MimeTypes {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid mime_types pattern %q", p)
		}
	}
	return nil
}

// Ignored reports whether any ignore pattern matches the vault path.
// Regexes match anywhere in the path, globs must match all of it.
func (m *Matcher) Ignored(p string) bool {
	for _, pattern := range m.ignore {
		if pattern.Regex != nil {
			if pattern.Regex.MatchString(p) {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(pattern.Glob, p); ok {
			return true
		}
	}
	return false
}

// Detect returns the MIME type of the file at p, without parameters.
func (m *Matcher) Detect(p string) (string, error) {
	f, err := m.fs.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to detect type of %s: %w", p, err)
	}

	mimeType, _, _ := strings.Cut(detected.String(), ";")
	return strings.TrimSpace(mimeType), nil
}

// AllowedType reports whether the file at p has one of the configured MIME
// types. With no mime_types configured every file is allowed.
func (m *Matcher) AllowedType(p string) (bool, error) {
	if len(m.mimeTypes) == 0 {
		return true, nil
	}

	mimeType, err := m.Detect(p)
	if err != nil {
		return false, err
	}

	for _, pattern := range m.mimeTypes {
		matched, err := doublestar.Match(pattern, mimeType)
		if err != nil {
			return false, fmt.Errorf("invalid mime_types pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// Allowed reports whether the attachment at p may be renamed.
func (m *Matcher) Allowed(p string) (bool, error) {
	if m.Ignored(p) {
		return false, nil
	}
	return m.AllowedType(p)
}

// IsImage reports whether the file at p is an image, by extension first
// and by content otherwise.
func (m *Matcher) IsImage(p string) bool {
	if i := strings.LastIndexByte(p, '.'); i >= 0 && IsImageExt(p[i+1:]) {
		return true
	}
	mimeType, err := m.Detect(p)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mimeType, "image/")
}

// IsImageExt reports whether ext (without dot) is a common image extension.
func IsImageExt(ext string) bool {
	return imageExtensions[strings.ToLower(ext)]
}
