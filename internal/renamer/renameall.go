package renamer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prettymuchbryce/autorename/internal/report"
	"github.com/prettymuchbryce/autorename/internal/vaultpath"
	"github.com/prettymuchbryce/autorename/internal/workspace"
)

// Attachments lists the files embedded in a note that RenameAll would rename.
type Attachments struct {
	Files    []string // vault paths in embed order, without duplicates
	Ignored  int      // embeds skipped by the ignore or mime_types settings
	Internal int      // links to Files inside the note
	External int      // links to Files in other notes
}

// Collect finds the attachments embedded in note.
// Embeds that do not resolve to a file, notes and duplicates are skipped.
func (r *Renamer) Collect(ctx context.Context, note *workspace.Note) (*Attachments, error) {
	result := &Attachments{}
	seen := make(map[string]bool)

	for _, embed := range workspace.Embeds(note.Content) {
		target, _, ok := r.resolver.Resolve(embed.Target, note.Path)
		if !ok || workspace.IsNote(target) || seen[target] {
			continue
		}
		seen[target] = true

		allowed, err := r.matcher.Allowed(target)
		if err != nil {
			slog.Warn("cannot check attachment", "path", target, "error", err)
			allowed = false
		}
		if !allowed {
			result.Ignored++
			continue
		}
		result.Files = append(result.Files, target)
	}

	if len(result.Files) == 0 {
		return result, nil
	}

	files := make(map[string]bool, len(result.Files))
	for _, f := range result.Files {
		files[f] = true
	}
	refs, err := r.references(ctx, files)
	if err != nil {
		return nil, err
	}
	for notePath, links := range refs {
		if notePath == note.Path {
			result.Internal += len(links)
		} else {
			result.External += len(links)
		}
	}
	return result, nil
}

// Summary counts the outcomes of RenameAll.
type Summary struct {
	Renamed   int
	Unchanged int
	Failed    int
	Links     int
}

// RenameAll renames the attachments of note. Every file is first moved to a
// temporary name so that files already following the template do not push
// each other's numbers up. Links are updated once at the end.
func (r *Renamer) RenameAll(ctx context.Context, note *workspace.Note, files []string) (Summary, error) {
	var summary Summary

	r.reporter.StartNote(note.Path)
	defer r.reporter.EndNote()

	targets := make(map[string]bool, len(files))
	for _, f := range files {
		targets[f] = true
	}
	refs, err := r.references(ctx, targets)
	if err != nil {
		return summary, err
	}

	var moves []tempMove
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			r.restore(moves)
			return summary, err
		}
		if err := r.checkFile(f); err != nil {
			r.reportFailure(f, err)
			summary.Failed++
			continue
		}

		tmp := vaultpath.TempName(vaultpath.Parse(f), TempPrefix, r.newID())
		if err := r.move(f, tmp); err != nil {
			r.reportFailure(f, err)
			summary.Failed++
			continue
		}
		moves = append(moves, tempMove{src: f, tmp: tmp})
	}

	engine := r.engine(note)
	moved := make(map[string]string, len(moves))
	for i, m := range moves {
		if err := ctx.Err(); err != nil {
			r.restore(moves[i:])
			break
		}

		r.reporter.StartAttachment(m.src)

		plan := r.PlanCandidate(ctx, m.tmp, engine.Render(m.src))
		r.reporter.RecordCheck("valid", plan.Valid, plan.Candidate)

		dst := plan.Target
		var moveErr error
		if !plan.Valid {
			moveErr = fmt.Errorf("%w: %q", ErrInvalidName, plan.Candidate)
		} else {
			moveErr = r.move(m.tmp, dst)
		}
		if moveErr != nil {
			slog.Error("rename failed", "path", m.src, "error", moveErr)
			r.restore([]tempMove{m})
			r.reporter.ReportResult(report.Result{Outcome: report.OutcomeFailed, Error: moveErr.Error()})
			r.reporter.EndAttachment()
			summary.Failed++
			continue
		}

		moved[m.src] = dst
		if dst == m.src {
			summary.Unchanged++
			r.reporter.ReportResult(report.Result{Outcome: report.OutcomeUnchanged})
		} else {
			summary.Renamed++
			r.reporter.ReportResult(report.Result{Outcome: report.OutcomeRenamed, NewPath: dst, Links: countRefs(refs, m.src)})
		}
		r.reporter.EndAttachment()
	}

	n, err := r.rewrite(refs, moved)
	summary.Links = n
	return summary, err
}

type tempMove struct {
	src string // original path
	tmp string // temporary path
}

// restore moves temporary files back to their original names.
func (r *Renamer) restore(moves []tempMove) {
	for _, m := range moves {
		if err := r.move(m.tmp, m.src); err != nil {
			slog.Error("failed to restore attachment name", "path", m.src, "temp", m.tmp, "error", err)
		}
	}
}

func (r *Renamer) reportFailure(p string, err error) {
	slog.Error("rename failed", "path", p, "error", err)
	r.reporter.StartAttachment(p)
	r.reporter.ReportResult(report.Result{Outcome: report.OutcomeFailed, Error: err.Error()})
	r.reporter.EndAttachment()
}

func countRefs(refs map[string][]linkRef, target string) int {
	n := 0
	for _, links := range refs {
		for _, l := range links {
			if l.target == target {
				n++
			}
		}
	}
	return n
}
