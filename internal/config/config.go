// Package config handles configuration loading for stageboard. It supports
// XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for stageboard.
type Config struct {
	// PollInterval is the fixed cadence at which the snapshot is re-read.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// CloseDelay is the grace period between the completion gate firing and
	// the board shutting down.
	CloseDelay time.Duration `mapstructure:"close_delay"`
	Board      BoardConfig   `mapstructure:"board"`
	History    HistoryConfig `mapstructure:"history"`
}

// BoardConfig holds TUI display settings.
type BoardConfig struct {
	AltScreen bool `mapstructure:"alt_screen"`
}

// HistoryConfig holds run-history store settings.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables. Precedence (highest to lowest):
// 1. Environment variables (STAGEBOARD_*)
// 2. Project config (.stageboard.yaml in current directory or parent)
// 3. User config (~/.config/stageboard/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("STAGEBOARD")
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("poll_interval", "500ms")
	v.SetDefault("close_delay", "750ms")
	v.SetDefault("board.alt_screen", true)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		PollInterval: 500 * time.Millisecond,
		CloseDelay:   750 * time.Millisecond,
		Board:        BoardConfig{AltScreen: true},
		History:      HistoryConfig{Enabled: true},
	}
}

// getUserConfigDir returns the XDG config directory for stageboard.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "stageboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "stageboard")
	}
	return filepath.Join(home, ".config", "stageboard")
}

// findProjectConfig searches for .stageboard.yaml in the current directory
// and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		configPath := filepath.Join(cwd, ".stageboard.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}
	return ""
}
