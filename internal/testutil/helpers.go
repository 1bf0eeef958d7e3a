//go:build integration

package testutil

// File builder helpers for fluent API

// File creates a FileEntry for a file at the given vault path.
// Path should use forward slashes regardless of OS.
func File(path string) FileEntry {
	return FileEntry{Path: path, IsDir: false}
}

// Dir creates a FileEntry for a folder at the given vault path.
// Path should use forward slashes regardless of OS.
func Dir(path string) FileEntry {
	return FileEntry{Path: path, IsDir: true}
}

// Note creates a FileEntry for a markdown note with content.
func Note(path, content string) FileEntry {
	return FileEntry{Path: path, Content: content, CheckContent: true}
}

// WithContent sets the file content.
func (f FileEntry) WithContent(content string) FileEntry {
	f.Content = content
	return f
}

// WithSize sets the file size (creates file filled with zero bytes).
func (f FileEntry) WithSize(size int64) FileEntry {
	f.Size = size
	return f
}

// ExactContent makes an expected entry also match on content.
func (f FileEntry) ExactContent() FileEntry {
	f.CheckContent = true
	return f
}
