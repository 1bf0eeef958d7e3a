package fs

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
)

// MemFileSystem is an in-memory filesystem for testing.
// Unlike DryRunFileSystem, it performs no logging.
type MemFileSystem struct {
	afero.Fs

	// Trashed records the paths passed to Trash, in order.
	Trashed []string
}

// Trash simulates trashing by removing the file.
func (m *MemFileSystem) Trash(path string) error {
	if err := m.Fs.RemoveAll(path); err != nil {
		return err
	}
	m.Trashed = append(m.Trashed, path)
	return nil
}

// List implements FileSystem.
func (m *MemFileSystem) List(ctx context.Context, dir string) ([]string, error) {
	return listFiles(ctx, m.Fs, dir)
}

// RealPath implements FileSystem.
func (m *MemFileSystem) RealPath(path string) string {
	return realPath("/", path)
}

// MustMkdirAll creates a directory and panics on error. For use in tests.
func (m *MemFileSystem) MustMkdirAll(path string) {
	if err := m.Fs.MkdirAll(path, 0755); err != nil {
		panic(fmt.Sprintf("MustMkdirAll(%q): %v", path, err))
	}
}

// MustWriteFile writes a file, creating its folders, and panics on error. For use in tests.
func (m *MemFileSystem) MustWriteFile(path, content string) {
	if err := afero.WriteFile(m.Fs, path, []byte(content), 0644); err != nil {
		panic(fmt.Sprintf("MustWriteFile(%q): %v", path, err))
	}
}

// MustReadFile reads a file and panics on error. For use in tests.
func (m *MemFileSystem) MustReadFile(path string) string {
	data, err := afero.ReadFile(m.Fs, path)
	if err != nil {
		panic(fmt.Sprintf("MustReadFile(%q): %v", path, err))
	}
	return string(data)
}

// MustRemoveAll removes a path and panics on error. For use in tests.
func (m *MemFileSystem) MustRemoveAll(path string) {
	if err := m.Fs.RemoveAll(path); err != nil {
		panic(fmt.Sprintf("MustRemoveAll(%q): %v", path, err))
	}
}
