package renamer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prettymuchbryce/autorename/internal/vaultpath"
	"github.com/prettymuchbryce/autorename/internal/workspace"

	"github.com/spf13/afero"
)

// Apply renames the attachment at src to dst and updates every link to it.
// It returns the number of links updated. Renaming a file onto itself is a no-op.
func (r *Renamer) Apply(ctx context.Context, src, dst string) (int, error) {
	if !vaultpath.IsValid(dst) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidName, dst)
	}
	src = vaultpath.Clean(src)
	dst = vaultpath.Clean(dst)

	if err := r.checkFile(src); err != nil {
		return 0, err
	}
	if src == dst {
		return 0, nil
	}

	refs, err := r.references(ctx, map[string]bool{src: true})
	if err != nil {
		return 0, err
	}

	if err := r.move(src, dst); err != nil {
		return 0, err
	}

	return r.rewrite(refs, map[string]string{src: dst})
}

// Discard moves the attachment at src to the trash and removes its embeds
// from note. note may be nil.
func (r *Renamer) Discard(ctx context.Context, src string, note *workspace.Note) error {
	src = vaultpath.Clean(src)
	if err := r.checkFile(src); err != nil {
		return err
	}

	var refs map[string][]linkRef
	if note != nil {
		var err error
		refs, err = r.noteReferences(note.Path, map[string]bool{src: true})
		if err != nil {
			return err
		}
	}

	if err := r.fs.Trash(src); err != nil {
		return fmt.Errorf("failed to trash %s: %w", src, err)
	}
	r.resolver.Removed(src)
	slog.Info("trashed attachment", "path", src)

	for notePath, links := range refs {
		embeds := links[:0]
		for _, l := range links {
			if l.link.Embed {
				embeds = append(embeds, l)
			}
		}
		if len(embeds) == 0 {
			continue
		}
		if _, err := r.rewriteNote(notePath, embeds, func(linkRef) string { return "" }); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renamer) checkFile(p string) error {
	info, err := r.fs.Stat(p)
	if err != nil {
		return fmt.Errorf("cannot rename %s: %w", p, err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot rename %s: %w", p, ErrNotFile)
	}
	return nil
}

// move renames src to dst, creating the parent folder when allowed.
func (r *Renamer) move(src, dst string) error {
	if parent := vaultpath.Parse(dst).Parent; parent != "" {
		exists, err := afero.DirExists(r.fs, parent)
		if err != nil {
			return err
		}
		if !exists {
			if !r.settings.CreateMissingDirs {
				return fmt.Errorf("cannot rename attachment to %s: %w: %q", dst, ErrMissingParent, parent)
			}
			if err := r.fs.MkdirAll(parent, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", parent, err)
			}
		}
	}

	if _, err := r.fs.Stat(dst); err == nil {
		return fmt.Errorf("cannot rename %s to %s: %w", src, dst, ErrExists)
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := r.fs.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", src, dst, err)
	}
	r.resolver.Moved(src, dst)
	slog.Info("renamed attachment", "from", src, "to", dst)
	return nil
}

// linkRef is a link in a note that resolves to an attachment.
type linkRef struct {
	link   workspace.Link
	target string // vault path the link resolves to
	style  workspace.LinkStyle
}

// references finds the links to targets in every note of the vault, keyed by note.
func (r *Renamer) references(ctx context.Context, targets map[string]bool) (map[string][]linkRef, error) {
	notes, err := r.resolver.Notes()
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	// PERF: reads every note of the vault
	refs := make(map[string][]linkRef)
	for _, notePath := range notes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		noteRefs, err := r.noteReferences(notePath, targets)
		if err != nil {
			return nil, err
		}
		for k, v := range noteRefs {
			refs[k] = v
		}
	}
	return refs, nil
}

func (r *Renamer) noteReferences(notePath string, targets map[string]bool) (map[string][]linkRef, error) {
	content, err := afero.ReadFile(r.fs, notePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read note %s: %w", notePath, err)
	}

	refs := make(map[string][]linkRef)
	for _, l := range workspace.Links(string(content)) {
		target, style, ok := r.resolver.Resolve(l.Target, notePath)
		if !ok || !targets[target] {
			continue
		}
		refs[notePath] = append(refs[notePath], linkRef{link: l, target: target, style: style})
	}
	return refs, nil
}

// rewrite points the referenced links at the new paths in moved.
// It returns the number of links changed.
func (r *Renamer) rewrite(refs map[string][]linkRef, moved map[string]string) (int, error) {
	total := 0
	for notePath, links := range refs {
		n, err := r.rewriteNote(notePath, links, func(ref linkRef) string {
			dst, ok := moved[ref.target]
			if !ok {
				return ref.link.Render(ref.link.Target)
			}
			return ref.link.Render(r.resolver.Target(ref.style, dst, notePath))
		})
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// rewriteNote replaces the given links of a note with the text render returns.
// The note must not have changed since the links were found.
func (r *Renamer) rewriteNote(notePath string, links []linkRef, render func(linkRef) string) (int, error) {
	content, err := afero.ReadFile(r.fs, notePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read note %s: %w", notePath, err)
	}

	byStart := make(map[int]linkRef, len(links))
	for _, l := range links {
		byStart[l.link.Start] = l
	}

	changed := 0
	updated := workspace.RewriteLinks(string(content), func(l workspace.Link) (string, bool) {
		ref, ok := byStart[l.Start]
		if !ok {
			return "", false
		}
		text := render(ref)
		if text == string(content[l.Start:l.End]) {
			return "", false
		}
		changed++
		return text, true
	})
	if changed == 0 {
		return 0, nil
	}

	info, err := r.fs.Stat(notePath)
	if err != nil {
		return 0, err
	}
	if err := afero.WriteFile(r.fs, notePath, []byte(updated), info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("failed to update links in %s: %w", notePath, err)
	}
	slog.Debug("updated links", "note", notePath, "count", changed)
	return changed, nil
}
