package vaultpath

import "strings"

// InvalidChars are the characters that cannot appear in a vault file name on
// every supported platform.
const InvalidChars = `\:*?"<>|`

// IsValid reports whether candidate can be used as a rename destination.
// Rendering never rejects anything, so callers check this before touching the
// filesystem.
func IsValid(candidate string) bool {
	if candidate == "" || strings.HasSuffix(candidate, "/") {
		return false
	}
	return !strings.ContainsAny(candidate, InvalidChars)
}

// TempName returns a throwaway path next to p, keeping its extension.
// Used to move files out of the way before renaming several of them, so
// their numbers don't leapfrog each other.
func TempName(p *Path, prefix, id string) string {
	return Join(p.Parent, withExtension(prefix+id, p.Extension))
}
