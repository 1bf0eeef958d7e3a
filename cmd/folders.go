package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/prettymuchbryce/autorename/internal/config"
	"github.com/prettymuchbryce/autorename/internal/vaultpath"
)

var (
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle = lipgloss.NewStyle().Bold(true)
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Manage the folder values used by {custom}",
	Long: `Manage the folder values used by {custom}.

A note gets the value of the deepest folder that its path starts with.`,
}

var foldersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folder values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(cfg.FolderValues) == 0 {
			fmt.Fprintln(out, dimStyle.Render("No folder values in "+path))
			return nil
		}

		width := 0
		for _, fv := range cfg.FolderValues {
			width = max(width, len(fv.Folder))
		}
		for _, fv := range cfg.FolderValues {
			fmt.Fprintf(out, "%s  %s\n", labelStyle.Render(fmt.Sprintf("%-*s", width, fv.Folder)), fv.Value)
		}
		return nil
	},
}

var foldersSetCmd = &cobra.Command{
	Use:   "set <folder> <value>",
	Short: "Set the value for a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateFolderValues(cmd, func(values *config.FolderValues) error {
			folder := vaultpath.Clean(args[0])
			if folder == "" {
				return fmt.Errorf("folder must not be the vault root")
			}
			values.Set(folder, args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", folder, args[1])
			return nil
		})
	},
}

var foldersUnsetCmd = &cobra.Command{
	Use:   "unset <folder>",
	Short: "Remove the value for a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateFolderValues(cmd, func(values *config.FolderValues) error {
			folder := vaultpath.Clean(args[0])
			if !values.Delete(folder) {
				return fmt.Errorf("no value for folder %q", folder)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", folder)
			return nil
		})
	},
}

// updateFolderValues applies fn to the folder values and writes them back.
func updateFolderValues(cmd *cobra.Command, fn func(*config.FolderValues) error) error {
	path, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	values := cfg.FolderValues
	if err := fn(&values); err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintln(cmd.ErrOrStderr(), "Dry-run mode enabled, config not saved")
		return nil
	}
	if err := config.SaveFolderValues(afero.NewOsFs(), path, values); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func init() {
	foldersCmd.AddCommand(foldersListCmd, foldersSetCmd, foldersUnsetCmd)
	rootCmd.AddCommand(foldersCmd)
}
