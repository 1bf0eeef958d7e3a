package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"

	"github.com/prettymuchbryce/autorename/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rename attachments as they are added to the vault",
	Long: `Watch the vault and rename new attachments for the note given with --note.

The note is read again for every attachment, so {header} follows --line as the
note changes. Attachments are renamed without asking.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if a.note == nil {
			return fmt.Errorf("watch needs the active note: pass --note")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w, err := watcher.New(a.fs, a.renamer.Matcher(), a.cfg.Watch, func(ctx context.Context, p string) (string, error) {
			return a.renameNew(ctx, cmd, p)
		})
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (%d folders) for %s\n", a.root, w.WatchCount(), a.note.Path)

		// Notify systemd that we're ready (no-op on non-systemd systems)
		daemon.SdNotify(false, daemon.SdNotifyReady)
		err = w.Run(ctx)
		daemon.SdNotify(false, daemon.SdNotifyStopping)
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// renameNew renames an attachment that was just added to the vault.
func (a *app) renameNew(ctx context.Context, cmd *cobra.Command, p string) (string, error) {
	a.renamer.Resolver().Refresh()

	note, err := a.loadNote(cmd, a.note.Path)
	if err != nil {
		slog.Warn("using the last known note content", "error", err)
	} else {
		a.note = note
	}

	return a.rename(ctx, p, nil)
}
