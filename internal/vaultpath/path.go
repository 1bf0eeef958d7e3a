package vaultpath

import (
	"fmt"
	"strings"
)

// Path is a parsed vault path. Vault paths always use "/" as the separator,
// regardless of the host OS.
type Path struct {
	Original  string
	Parent    string // normalized, no empty/"."/".." segments
	Basename  string // name without extension
	Extension string // no leading dot
	Increment int    // set by UpdateIncrement
}

// RenderOpts controls how the collision number is appended to a basename.
type RenderOpts struct {
	Separator     string
	AlwaysNumber  bool
	NumberPadding int
}

// Parse splits src into parent, basename and extension.
// If overrideExtension is given and non-empty, the whole name is used as the
// basename and the extension is forced to that value.
// Parse never fails: an empty src yields an empty Path.
func Parse(src string, overrideExtension ...string) *Path {
	p := &Path{}
	if src == "" {
		return p
	}

	p.Original = src
	parts := Split(src)
	name := ""
	if len(parts) > 0 {
		name = parts[len(parts)-1]
		parts = parts[:len(parts)-1]
	}
	p.Parent = strings.Join(parts, "/")

	if len(overrideExtension) > 0 && overrideExtension[0] != "" {
		p.Basename = name
		p.Extension = overrideExtension[0]
		return p
	}

	p.Basename, p.Extension = splitExtension(name)
	return p
}

// ParseExtension returns the extension of value without the leading dot.
// A dot at index 0 (e.g. ".gitignore") does not start an extension.
func ParseExtension(value string) string {
	_, ext := splitExtension(value)
	return ext
}

// Split splits a vault path into its segments, discarding empty, ".", and ".."
// segments.
func Split(value string) []string {
	var parts []string
	for _, s := range strings.Split(value, "/") {
		if strings.TrimSpace(s) == "" || s == "." || s == ".." {
			continue
		}
		parts = append(parts, s)
	}
	return parts
}

// Clean normalizes a vault path the same way Parse normalizes the parent.
func Clean(value string) string {
	return strings.Join(Split(value), "/")
}

// Join joins a parent folder and a name, omitting the separator for the vault root.
func Join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func splitExtension(name string) (base, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx > 0 {
		return name[:idx], name[idx+1:]
	}
	return name, ""
}

// Name returns the basename with its extension.
func (p *Path) Name() string {
	return withExtension(p.Basename, p.Extension)
}

// FullPath returns parent/name, or just the name when there is no parent.
func (p *Path) FullPath() string {
	return Join(p.Parent, p.Name())
}

// PathNoExt returns parent/basename.
func (p *Path) PathNoExt() string {
	return Join(p.Parent, p.Basename)
}

// RenderBaseName returns the basename with the collision number appended.
// No number is appended when Increment <= 0 unless opts.AlwaysNumber is set.
func (p *Path) RenderBaseName(opts RenderOpts) string {
	if !opts.AlwaysNumber && p.Increment <= 0 {
		return p.Basename
	}

	padding := opts.NumberPadding
	if padding < 0 {
		padding = 0
	}
	return fmt.Sprintf("%s%s%0*d", p.Basename, opts.Separator, padding, p.Increment)
}

// RenderName returns RenderBaseName plus the extension.
func (p *Path) RenderName(opts RenderOpts) string {
	return withExtension(p.RenderBaseName(opts), p.Extension)
}

// RenderPath returns the parent joined with RenderName.
func (p *Path) RenderPath(opts RenderOpts) string {
	return Join(p.Parent, p.RenderName(opts))
}

// RenderPathNoExt returns the parent joined with RenderBaseName.
func (p *Path) RenderPathNoExt(opts RenderOpts) string {
	return Join(p.Parent, p.RenderBaseName(opts))
}

func withExtension(base, ext string) string {
	if ext == "" {
		return base
	}
	return base + "." + ext
}
