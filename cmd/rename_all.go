package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prettymuchbryce/autorename/internal/prompt"
	"github.com/prettymuchbryce/autorename/internal/renamer"
)

var renameAllYes bool

var renameAllCmd = &cobra.Command{
	Use:   "rename-all [note]",
	Short: "Rename every attachment embedded in a note",
	Long: `Rename every attachment embedded in a note, using the note as the active note.
The note defaults to --note.

Attachments that already follow the name template keep their names.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		note := a.note
		if len(args) == 1 {
			p, err := a.vaultPath(args[0])
			if err != nil {
				return err
			}
			if note, err = a.loadNote(cmd, p); err != nil {
				return err
			}
		}
		if note == nil {
			return fmt.Errorf("no note given: pass a note or --note")
		}

		ctx := cmd.Context()
		attachments, err := a.renamer.Collect(ctx, note)
		if err != nil {
			return err
		}
		if len(attachments.Files) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No attachments to rename in %s\n", note.Path)
			return nil
		}

		if a.cfg.ConfirmRenameAll && !renameAllYes {
			ok, err := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm(confirmMessage(note.Path, attachments))
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}

		summary, err := a.renamer.RenameAll(ctx, note, attachments.Files)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%d renamed, %d unchanged, %d failed, %d links updated\n",
			summary.Renamed, summary.Unchanged, summary.Failed, summary.Links)
		if summary.Failed > 0 {
			return fmt.Errorf("%d attachments could not be renamed", summary.Failed)
		}
		return nil
	},
}

func init() {
	renameAllCmd.Flags().BoolVarP(&renameAllYes, "yes", "y", false, "rename without asking, even with confirm_rename_all")
	rootCmd.AddCommand(renameAllCmd)
}

// confirmMessage describes what rename-all is about to do.
func confirmMessage(notePath string, a *renamer.Attachments) string {
	msg := fmt.Sprintf("Rename %d %s in %s?", len(a.Files), plural(len(a.Files), "attachment", "attachments"), notePath)
	msg += fmt.Sprintf("\n  %d %s in this note, %d in other notes",
		a.Internal, plural(a.Internal, "link", "links"), a.External)
	if a.Ignored > 0 {
		msg += fmt.Sprintf("\n  %d ignored by ignore or mime_types", a.Ignored)
	}
	return msg + "\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
