package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/prettymuchbryce/autorename/internal/pathutil"
)

var (
	configPath string
	notePath   string
	noteLine   int
	dryRun     bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "autorename",
	Short: "autorename - Rename note attachments using a name template",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		SetupLogging("warn")
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", pathutil.MustDefaultConfigPath(), "path to config file")
	flags.StringVar(&notePath, "note", "", "the active note, as a vault path")
	flags.IntVar(&noteLine, "line", 0, "cursor line in the active note, starting at 1 (used by {header})")
	flags.BoolVarP(&dryRun, "dry-run", "n", false, "simulate changes without applying them")
	flags.BoolVarP(&verbose, "verbose", "v", false, "show attachments that were left unchanged")
}

func SetVersion(v string) {
	rootCmd.Version = v
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
