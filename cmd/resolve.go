package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveExt string

var resolveCmd = &cobra.Command{
	Use:   "resolve <candidate>",
	Short: "Print the path a candidate name resolves to, numbered past existing files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), a.renamer.ResolvePath(cmd.Context(), args[0], resolveExt))
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveExt, "ext", "", "extension to use instead of the one in the candidate")
	rootCmd.AddCommand(resolveCmd)
}
