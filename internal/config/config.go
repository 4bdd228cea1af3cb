// Package config loads quay's settings, forward presets, and connection
// bookmarks from yaml files under the user config directory. Missing or
// malformed files fall back to defaults; configuration is never a reason to
// refuse to start.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level contents of config.yaml.
type Config struct {
	General General `yaml:"general"`
}

// General holds startup behavior and the default connection target.
type General struct {
	AutoRefresh     bool   `yaml:"auto_refresh"`
	RefreshInterval int    `yaml:"refresh_interval"` // seconds between auto-refreshes
	DefaultFilter   string `yaml:"default_filter"`   // all|local|ssh|docker
	RemoteHost      string `yaml:"remote_host"`
	DockerTarget    string `yaml:"docker_target"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{General: General{RefreshInterval: 5, DefaultFilter: "all"}}
}

// Dir returns the quay config directory, or "" when the platform has none.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "quay")
}

// Load reads config.yaml from the config directory.
func Load() Config {
	return loadFrom(filepath.Join(Dir(), "config.yaml"))
}

func loadFrom(path string) Config {
	cfg := Default()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default()
	}
	if cfg.General.RefreshInterval <= 0 {
		cfg.General.RefreshInterval = 5
	}
	if cfg.General.DefaultFilter == "" {
		cfg.General.DefaultFilter = "all"
	}
	return cfg
}

// RefreshTicks converts the refresh interval to event-loop ticks (250ms each).
func (c Config) RefreshTicks() int {
	ticks := c.General.RefreshInterval * 4
	if ticks < 1 {
		ticks = 1
	}
	return ticks
}
