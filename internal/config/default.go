package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/prettymuchbryce/autorename/internal/pathutil"

	"github.com/spf13/afero"
)

//go:embed config-example.yaml
var defaultConfigContent string

// EnsureDefaultConfig creates the default config file if it doesn't exist.
// Returns the expanded path and any error encountered.
func EnsureDefaultConfig(configPath string) (string, error) {
	return EnsureDefaultConfigWithFs(configPath, afero.NewOsFs())
}

// EnsureDefaultConfigWithFs is EnsureDefaultConfig on the provided filesystem.
func EnsureDefaultConfigWithFs(configPath string, afs afero.Fs) (string, error) {
	expanded := pathutil.ExpandTilde(configPath)

	if _, err := afs.Stat(expanded); err == nil {
		return expanded, nil
	}

	dir := filepath.Dir(expanded)
	if err := afs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	if err := afero.WriteFile(afs, expanded, []byte(defaultConfigContent), 0644); err != nil {
		return "", fmt.Errorf("failed to create default config %s: %w", expanded, err)
	}

	slog.Info("created default config", "path", expanded)
	return expanded, nil
}

// IsDefaultConfig checks if the file at the given path matches the default config.
func IsDefaultConfig(afs afero.Fs, path string) bool {
	content, err := afero.ReadFile(afs, path)
	if err != nil {
		return false
	}
	return string(content) == defaultConfigContent
}
