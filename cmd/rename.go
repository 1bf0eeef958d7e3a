package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/prettymuchbryce/autorename/internal/prompt"
	"github.com/prettymuchbryce/autorename/internal/renamer"
	"github.com/prettymuchbryce/autorename/internal/report"
)

var renameYes bool

var renameCmd = &cobra.Command{
	Use:   "rename <attachment>",
	Short: "Rename an attachment for the active note",
	Long: `Rename an attachment using the name template and update the links to it.

With confirm_rename enabled the proposed name is shown first and can be
accepted, edited, skipped or cancelled. Cancelling trashes the attachment
when delete_on_cancel is enabled.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		src, err := a.vaultPath(args[0])
		if err != nil {
			return err
		}

		var p *prompt.Prompter
		if a.cfg.ConfirmRename && !renameYes {
			p = prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
		}
		_, err = a.rename(cmd.Context(), src, p)
		return err
	},
}

func init() {
	renameCmd.Flags().BoolVarP(&renameYes, "yes", "y", false, "rename without asking, even with confirm_rename")
	rootCmd.AddCommand(renameCmd)
}

// rename renames one attachment, asking p first unless p is nil.
// It returns the new path, or "" when the attachment was not moved.
func (a *app) rename(ctx context.Context, src string, p *prompt.Prompter) (string, error) {
	a.reporter.StartAttachment(src)
	defer a.reporter.EndAttachment()

	if a.renamer.Matcher().Ignored(src) {
		a.reporter.RecordCheck("ignore", false, "matches an ignore pattern")
		a.reporter.ReportResult(report.Result{Outcome: report.OutcomeSkipped, Reason: "ignored"})
		return "", nil
	}
	allowed, err := a.renamer.Matcher().AllowedType(src)
	if err != nil {
		return "", a.fail(err)
	}
	if !allowed {
		a.reporter.RecordCheck("type", false, "not in mime_types")
		a.reporter.ReportResult(report.Result{Outcome: report.OutcomeSkipped, Reason: "mime type"})
		return "", nil
	}

	plan := a.renamer.Plan(ctx, src, a.note)
	for p != nil {
		if plan.Valid && plan.Target == plan.Source {
			break
		}

		choice, err := p.Rename(a.describe(plan))
		if err != nil {
			return "", a.fail(err)
		}

		switch choice {
		case prompt.ChoiceRename:
			p = nil

		case prompt.ChoiceEdit:
			name, err := p.Edit(plan.Candidate)
			if err != nil {
				return "", a.fail(err)
			}
			plan = a.renamer.PlanCandidate(ctx, plan.Source, name)

		case prompt.ChoiceSkip:
			a.reporter.ReportResult(report.Result{Outcome: report.OutcomeSkipped, Reason: "skipped"})
			return "", nil

		case prompt.ChoiceCancel:
			if !a.cfg.DeleteOnCancel {
				a.reporter.ReportResult(report.Result{Outcome: report.OutcomeSkipped, Reason: "cancelled"})
				return "", nil
			}
			if err := a.renamer.Discard(ctx, plan.Source, a.note); err != nil {
				return "", a.fail(err)
			}
			a.reporter.ReportResult(report.Result{Outcome: report.OutcomeTrashed})
			return "", nil
		}
	}

	a.reporter.RecordCheck("valid", plan.Valid, plan.Candidate)
	if !plan.Valid {
		return "", a.fail(fmt.Errorf("%w: %q", renamer.ErrInvalidName, plan.Candidate))
	}
	if plan.Target == plan.Source {
		a.reporter.ReportResult(report.Result{Outcome: report.OutcomeUnchanged})
		return "", nil
	}

	links, err := a.renamer.Apply(ctx, plan.Source, plan.Target)
	if err != nil {
		return "", a.fail(err)
	}
	a.reporter.ReportResult(report.Result{Outcome: report.OutcomeRenamed, NewPath: plan.Target, Links: links})
	return plan.Target, nil
}

// fail reports err for the current attachment and returns it.
func (a *app) fail(err error) error {
	a.reporter.ReportResult(report.Result{Outcome: report.OutcomeFailed, Error: err.Error()})
	return err
}

// describe collects what the rename prompt shows about an attachment.
func (a *app) describe(plan renamer.Plan) prompt.Attachment {
	att := prompt.Attachment{
		Source:   plan.Source,
		Target:   plan.Target,
		Proposed: plan.Candidate,
		Image:    a.renamer.Matcher().IsImage(plan.Source),
	}

	if info, err := a.fs.Stat(plan.Source); err == nil {
		att.Size = info.Size()
	}
	mimeType, err := a.renamer.Matcher().Detect(plan.Source)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Debug("cannot detect attachment type", "path", plan.Source, "error", err)
	}
	att.MimeType = mimeType
	return att
}
