package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prettymuchbryce/autorename/internal/vaultpath"

	"github.com/spf13/afero"
)

// FileSystem is the vault filesystem. Paths are vault paths: relative to the
// vault root and "/"-separated.
type FileSystem interface {
	afero.Fs

	// List returns the vault paths of the files (not folders) directly inside dir.
	List(ctx context.Context, dir string) ([]string, error)

	// Trash moves a file to the system trash (platform-specific).
	// On macOS: uses Finder via AppleScript
	// On Windows: uses Recycle Bin via PowerShell
	// On Linux: follows FreeDesktop.org Trash specification
	Trash(path string) error

	// RealPath returns the operating system path of a vault path, for display.
	RealPath(path string) string
}

// NewReal creates a FileSystem that performs actual filesystem operations
// inside the vault at root.
func NewReal(root string) FileSystem {
	return &RealFileSystem{
		Fs:   afero.NewBasePathFs(afero.NewOsFs(), root),
		root: root,
	}
}

// NewDryRun creates a FileSystem that logs operations without modifying the real filesystem.
// Uses CopyOnWriteFs so subsequent operations work correctly (e.g., rename followed by list).
func NewDryRun(root string) FileSystem {
	base := afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), root))
	layer := afero.NewBasePathFs(afero.NewMemMapFs(), "/")
	cow := afero.NewCopyOnWriteFs(base, layer)
	return &DryRunFileSystem{Fs: cow, root: root}
}

// NewMem creates an in-memory FileSystem for testing.
// Unlike DryRunFileSystem, it performs no logging.
func NewMem() FileSystem {
	return NewMemTest()
}

// NewMemTest returns a MemFileSystem for testing with access to Must* helpers.
func NewMemTest() *MemFileSystem {
	return &MemFileSystem{Fs: afero.NewBasePathFs(afero.NewMemMapFs(), "/")}
}

// listFiles implements FileSystem.List on any afero.Fs.
func listFiles(ctx context.Context, afs afero.Fs, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir = vaultpath.Clean(dir)
	entries, err := afero.ReadDir(afs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, vaultpath.Join(dir, entry.Name()))
	}
	return files, nil
}

// realPath joins a vault path onto the vault root.
func realPath(root, p string) string {
	return filepath.Join(root, filepath.FromSlash(vaultpath.Clean(p)))
}

// copyFile copies a single file.
func copyFile(afs afero.Fs, src, dst string, mode os.FileMode) error {
	srcFile, err := afs.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := afs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	return nil
}
