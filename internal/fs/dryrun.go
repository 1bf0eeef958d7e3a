package fs

import (
	"context"
	"log/slog"

	"github.com/spf13/afero"
)

// DryRunFileSystem simulates operations without modifying the real filesystem.
// Uses CopyOnWriteFs so operations work correctly in memory.
type DryRunFileSystem struct {
	afero.Fs
	root string
}

// Remove is a no-op in dry-run mode.
// CoW doesn't support removing files that only exist in the base layer.
func (d *DryRunFileSystem) Remove(name string) error {
	slog.Info("dry run: remove", "path", name)
	return nil
}

// RemoveAll is a no-op in dry-run mode.
// CoW doesn't support removing files that only exist in the base layer.
func (d *DryRunFileSystem) RemoveAll(path string) error {
	slog.Info("dry run: remove all", "path", path)
	return nil
}

// Rename copies to new location so subsequent actions work.
// CoW doesn't support renaming files that only exist in the base layer,
// so we copy instead. The original still exists but subsequent actions use the new path.
func (d *DryRunFileSystem) Rename(oldname, newname string) error {
	slog.Info("dry run: rename", "from", oldname, "to", newname)
	srcInfo, err := d.Fs.Stat(oldname)
	if err != nil {
		return err
	}
	return copyFile(d.Fs, oldname, newname, srcInfo.Mode())
}

// Trash is a no-op in dry-run mode.
func (d *DryRunFileSystem) Trash(path string) error {
	slog.Info("dry run: trash", "path", path)
	return nil
}

// List implements FileSystem.
func (d *DryRunFileSystem) List(ctx context.Context, dir string) ([]string, error) {
	return listFiles(ctx, d.Fs, dir)
}

// RealPath implements FileSystem.
func (d *DryRunFileSystem) RealPath(path string) string {
	return realPath(d.root, path)
}
