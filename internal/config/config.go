// Package config loads the chorus configuration.
// Configuration is read from .chorus/config.yaml in the working
// directory with sensible defaults; a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default location for the config file.
	DefaultConfigPath = "./.chorus/config.yaml"

	// DefaultHistoryPath is the default location of the history
	// database when no config is present.
	DefaultHistoryPath = "./.chorus/history.db"

	// DefaultPool is the pool directory assumed when none are
	// configured.
	DefaultPool = "./tasks"
)

// Config holds the chorus configuration.
type Config struct {
	// Pools is the ordered list of directories scanned for task files.
	Pools []string `yaml:"pools"`

	// History is the path of the SQLite execution history database.
	History string `yaml:"history"`

	// TrackExecutions controls whether runs consult and update the
	// history database by default.
	TrackExecutions *bool `yaml:"track_executions"`
}

// Tracking returns the configured tracking default (on unless the
// config file turns it off).
func (c *Config) Tracking() bool {
	return c.TrackExecutions == nil || *c.TrackExecutions
}

// Load reads the configuration from path. An empty path means
// DefaultConfigPath; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := &Config{
		Pools:   []string{DefaultPool},
		History: DefaultHistoryPath,
	}

	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if len(cfg.Pools) == 0 {
		cfg.Pools = []string{DefaultPool}
	}
	if cfg.History == "" {
		cfg.History = DefaultHistoryPath
	}
	for i, pool := range cfg.Pools {
		cfg.Pools[i] = expandPath(pool)
	}
	cfg.History = expandPath(cfg.History)

	return cfg, nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}
