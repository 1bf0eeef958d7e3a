package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <attachment>",
	Short: "Print the name template rendered for an attachment",
	Long: `Print the name template rendered for an attachment, without an extension
or collision number. Use --note and --line to set the active note.`,
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

		fmt.Fprintln(cmd.OutOrStdout(), a.renamer.RenderName(src, a.note))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
