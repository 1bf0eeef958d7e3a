// Package renamer renames vault attachments from the name template and keeps
// the links in notes pointing at them.
package renamer

import (
	"context"
	"errors"

	"github.com/prettymuchbryce/autorename/internal/config"
	"github.com/prettymuchbryce/autorename/internal/filter"
	"github.com/prettymuchbryce/autorename/internal/fs"
	"github.com/prettymuchbryce/autorename/internal/ident"
	"github.com/prettymuchbryce/autorename/internal/nametmpl"
	"github.com/prettymuchbryce/autorename/internal/report"
	"github.com/prettymuchbryce/autorename/internal/vaultpath"
	"github.com/prettymuchbryce/autorename/internal/workspace"
)

// TempPrefix prefixes the temporary names used by RenameAll.
const TempPrefix = "renameall_"

var (
	ErrInvalidName   = errors.New("invalid attachment name")
	ErrNotFile       = errors.New("not a file")
	ErrExists        = errors.New("destination already exists")
	ErrMissingParent = errors.New("parent folder does not exist")
)

// Renamer renames attachments of a vault.
type Renamer struct {
	fs         fs.FileSystem
	settings   config.Settings
	matcher    *filter.Matcher
	resolver   *workspace.Resolver
	reporter   report.Reporter
	newID      func() string
	engineOpts []nametmpl.Option
}

// Option configures a Renamer.
type Option func(*Renamer)

// WithReporter sets the reporter. The default reports nothing.
func WithReporter(r report.Reporter) Option {
	return func(rn *Renamer) {
		if r != nil {
			rn.reporter = r
		}
	}
}

// WithIDGenerator sets the generator for temporary names and {uuid}.
func WithIDGenerator(fn func() string) Option {
	return func(rn *Renamer) { rn.newID = fn }
}

// WithEngineOptions passes options to every template engine the Renamer creates.
func WithEngineOptions(opts ...nametmpl.Option) Option {
	return func(rn *Renamer) { rn.engineOpts = append(rn.engineOpts, opts...) }
}

// New creates a Renamer for the vault filesystem.
func New(filesystem fs.FileSystem, settings config.Settings, opts ...Option) *Renamer {
	r := &Renamer{
		fs:       filesystem,
		settings: settings,
		matcher:  filter.New(filesystem, settings),
		resolver: workspace.NewResolver(filesystem),
		reporter: report.NullReporter{},
		newID:    ident.NewUUID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Settings returns the rename settings.
func (r *Renamer) Settings() config.Settings {
	return r.settings
}

// Matcher returns the filter applied to attachments.
func (r *Renamer) Matcher() *filter.Matcher {
	return r.matcher
}

// Resolver returns the link resolver of the vault.
func (r *Renamer) Resolver() *workspace.Resolver {
	return r.resolver
}

func (r *Renamer) engine(note *workspace.Note) *nametmpl.Engine {
	opts := []nametmpl.Option{
		nametmpl.WithContext(workspace.Static{Note: note}),
		nametmpl.WithIDGenerator(r.newID),
	}
	return nametmpl.New(r.settings, append(opts, r.engineOpts...)...)
}

// RenderName renders the name template for the attachment at src.
// The result has no extension and no collision number.
func (r *Renamer) RenderName(src string, note *workspace.Note) string {
	return r.engine(note).Render(src)
}

// ResolvePath numbers candidate so it does not collide with the files in its
// folder and returns the final vault path. A non-empty extension is used as
// the extension of candidate instead of inferring one.
func (r *Renamer) ResolvePath(ctx context.Context, candidate, extension string) string {
	return r.resolve(ctx, candidate, extension, r.fs)
}

func (r *Renamer) resolve(ctx context.Context, candidate, extension string, lister vaultpath.Lister) string {
	var p *vaultpath.Path
	if extension != "" {
		p = vaultpath.Parse(candidate, extension)
	} else {
		p = vaultpath.Parse(candidate)
	}

	opts := r.settings.RenderOpts()
	p.UpdateIncrement(ctx, lister, opts)
	return p.RenderPath(opts)
}

// listerWithout lists like the vault filesystem but leaves out src, so an
// attachment never collides with itself.
func (r *Renamer) listerWithout(src string) vaultpath.Lister {
	return vaultpath.ListerFunc(func(ctx context.Context, dir string) ([]string, error) {
		entries, err := r.fs.List(ctx, dir)
		if err != nil {
			return nil, err
		}
		kept := entries[:0]
		for _, e := range entries {
			if vaultpath.Clean(e) != src {
				kept = append(kept, e)
			}
		}
		return kept, nil
	})
}

// Plan is a proposed rename.
type Plan struct {
	Source    string // current vault path
	Candidate string // rendered template, without extension or number
	Target    string // numbered path with extension
	Valid     bool   // Candidate is a usable name
}

// Plan renders and resolves the new path for the attachment at src.
func (r *Renamer) Plan(ctx context.Context, src string, note *workspace.Note) Plan {
	src = vaultpath.Clean(src)
	candidate := r.RenderName(src, note)
	return r.PlanCandidate(ctx, src, candidate)
}

// PlanCandidate resolves an edited candidate name for the attachment at src.
// An attachment that already has the candidate name plans to itself.
func (r *Renamer) PlanCandidate(ctx context.Context, src, candidate string) Plan {
	src = vaultpath.Clean(src)
	plan := Plan{
		Source:    src,
		Candidate: candidate,
		Valid:     vaultpath.IsValid(candidate),
	}
	if plan.Valid {
		plan.Target = r.resolve(ctx, candidate, vaultpath.Parse(src).Extension, r.listerWithout(src))
	}
	return plan
}
