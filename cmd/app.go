package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/prettymuchbryce/autorename/internal/config"
	"github.com/prettymuchbryce/autorename/internal/filter"
	"github.com/prettymuchbryce/autorename/internal/fs"
	"github.com/prettymuchbryce/autorename/internal/pathutil"
	"github.com/prettymuchbryce/autorename/internal/renamer"
	"github.com/prettymuchbryce/autorename/internal/report"
	"github.com/prettymuchbryce/autorename/internal/vaultpath"
	"github.com/prettymuchbryce/autorename/internal/workspace"
)

// app holds what every command needs: the config, the vault and the active note.
type app struct {
	configPath string
	cfg        *config.Config
	root       string // OS path of the vault
	fs         fs.FileSystem
	note       *workspace.Note // nil without --note
	renamer    *renamer.Renamer
	reporter   *report.StructuredReporter
}

// loadConfig loads the config file, creating the default one when --config
// was not given, and applies its logging level.
func loadConfig(cmd *cobra.Command) (string, *config.Config, error) {
	var path string
	var err error

	if cmd.Flags().Changed("config") {
		path = pathutil.ExpandTilde(configPath)
	} else {
		path, err = config.EnsureDefaultConfig(configPath)
		if err != nil {
			return "", nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load config: %w", err)
	}

	SetupLogging(cfg.Logging.Level)
	if config.IsDefaultConfig(afero.NewOsFs(), path) {
		slog.Info("using the default config, edit it to customize renaming", "path", path)
	}

	if err := filter.Validate(cfg.Settings); err != nil {
		return "", nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return path, cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	path, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	root := cfg.Vault
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	if root, err = filepath.Abs(root); err != nil {
		return nil, err
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("vault %s is not a folder", root)
	}

	// Create the appropriate filesystem based on dry-run flag
	var filesystem fs.FileSystem
	if dryRun {
		filesystem = fs.NewDryRun(root)
		fmt.Fprintln(cmd.ErrOrStderr(), "Dry-run mode enabled, no files will be changed")
	} else {
		filesystem = fs.NewReal(root)
	}

	reporter := report.NewStructuredWithWriter(cmd.OutOrStdout(), verbose)
	a := &app{
		configPath: path,
		cfg:        cfg,
		root:       root,
		fs:         filesystem,
		renamer:    renamer.New(filesystem, cfg.Settings, renamer.WithReporter(reporter)),
		reporter:   reporter,
	}

	if notePath != "" {
		p, err := a.vaultPath(notePath)
		if err != nil {
			return nil, err
		}
		if a.note, err = a.loadNote(cmd, p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// loadNote reads a note, with the cursor from --line when given.
func (a *app) loadNote(cmd *cobra.Command, p string) (*workspace.Note, error) {
	var cursor *int
	if cmd.Flags().Changed("line") {
		if noteLine < 1 {
			return nil, fmt.Errorf("--line must be 1 or more, got %d", noteLine)
		}
		line := noteLine - 1
		cursor = &line
	}

	note, err := workspace.LoadNote(a.fs, p, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to load note %s: %w", p, err)
	}
	return note, nil
}

// vaultPath converts a command line path to a vault path.
// Absolute paths must be inside the vault; anything else is a vault path already.
func (a *app) vaultPath(arg string) (string, error) {
	if filepath.IsAbs(arg) {
		rel, err := filepath.Rel(a.root, arg)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%s is outside the vault %s", arg, a.root)
		}
		arg = rel
	}
	return vaultpath.Clean(filepath.ToSlash(arg)), nil
}
