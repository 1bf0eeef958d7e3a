package config

import (
	"time"

	"github.com/prettymuchbryce/autorename/internal/pathutil"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level configuration.
type Config struct {
	Vault    string `yaml:"vault"` // empty means the current directory
	Settings `yaml:",inline"`
	Watch    WatchConfig   `yaml:"watch"`
	Logging  LoggingConfig `yaml:"logging"`
}

// WatchConfig represents watch-mode configuration.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	// Files created longer ago than this are not renamed. Guards against
	// events fired for existing files, e.g. when a folder is moved into the vault.
	MaxAge time.Duration `yaml:"max_age"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultWatchConfig returns the default watch configuration.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		Debounce: 250 * time.Millisecond,
		MaxAge:   time.Second,
	}
}

// DefaultLoggingConfig returns the default logging configuration.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level: "warn",
	}
}

// Load reads and parses a configuration file using the real filesystem.
func Load(path string) (*Config, error) {
	return LoadWithFs(path, afero.NewOsFs())
}

// LoadWithFs reads and parses a configuration file using the provided filesystem.
func LoadWithFs(path string, afs afero.Fs) (*Config, error) {
	expanded := pathutil.ExpandTilde(path)

	data, err := afero.ReadFile(afs, expanded)
	if err != nil {
		return nil, err
	}

	// Start with defaults
	config := &Config{
		Settings: DefaultSettings(),
		Watch:    DefaultWatchConfig(),
		Logging:  DefaultLoggingConfig(),
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	config.Vault = pathutil.ExpandTilde(config.Vault)
	config.Settings.Normalize()

	return config, nil
}
