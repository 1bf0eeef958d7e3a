package vaultpath

import (
	"context"
	"log/slog"
	"strings"
)

// Lister lists the files directly inside a vault folder.
// Returned entries are vault paths (or bare names); only the last segment is used.
type Lister interface {
	List(ctx context.Context, dir string) ([]string, error)
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc func(ctx context.Context, dir string) ([]string, error)

// List calls f.
func (f ListerFunc) List(ctx context.Context, dir string) ([]string, error) {
	return f(ctx, dir)
}

// UpdateIncrement scans the parent folder and sets Increment to the next
// number that does not collide with the highest number already in use.
//
// Siblings are compared by basename only, so "foo.png" and "foo.jpg" share
// one number sequence. A listing failure is not an error: it is logged and
// Increment is reset to 0.
func (p *Path) UpdateIncrement(ctx context.Context, lister Lister, opts RenderOpts) {
	entries, err := lister.List(ctx, p.Parent)
	if err != nil {
		slog.Warn("could not list folder", "path", p.Parent, "error", err)
		p.Increment = 0
		return
	}

	num := -1
	exists := opts.AlwaysNumber
	for _, entry := range entries {
		sibling := Parse(entry)
		if !strings.HasPrefix(sibling.Basename, p.Basename) {
			continue
		}

		if sibling.Basename == p.Basename {
			exists = true
			continue
		}

		suffix := sibling.Basename[len(p.Basename):]
		if opts.Separator != "" {
			// a different separator means an unrelated name, e.g. "foo2" vs "foo-2"
			if !strings.HasPrefix(suffix, opts.Separator) {
				continue
			}
			suffix = suffix[len(opts.Separator):]
		}

		// zero is ignored on purpose: "foo-0" does not take part in numbering
		if n, ok := parseLeadingInt(suffix); ok && n > 0 {
			num = max(num, n+1)
		}
	}

	switch {
	case num > 0:
		p.Increment = num
	case exists:
		p.Increment = 1
	default:
		p.Increment = 0
	}
}

// parseLeadingInt parses an optionally signed integer at the start of s,
// ignoring leading whitespace and anything after the digits.
// It reports false when s does not start with a number.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	digits := 0
	for ; digits < len(s); digits++ {
		c := s[digits]
		if c < '0' || c > '9' {
			break
		}
		if n > (1<<31)/10 {
			// absurdly long suffixes are not collision numbers
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
