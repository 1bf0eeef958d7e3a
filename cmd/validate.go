package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prettymuchbryce/autorename/internal/vaultpath"
)

var validateCmd = &cobra.Command{
	Use:   "validate <candidate>",
	Short: "Check whether a name can be used as a rename destination",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !vaultpath.IsValid(args[0]) {
			return fmt.Errorf("%q is not a valid name: it must not be empty, end with \"/\" or contain any of %s",
				args[0], vaultpath.InvalidChars)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
