// Package config loads murmur's host configuration from a TOML file with
// environment-variable overrides. A missing config file is not an error;
// the defaults describe a working local setup.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration for the murmur host.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Logging LoggingConfig `toml:"logging"`
	Hooks   HooksConfig   `toml:"hooks"`
	UI      UIConfig      `toml:"ui"`
}

// BackendConfig describes the supervised backend process.
type BackendConfig struct {
	// Command is the logical executable name; resolution tries the
	// bundled resource directory first, then the search path.
	Command string `toml:"command"`

	// Path, when set, bypasses resolution entirely.
	Path string `toml:"path"`

	// Args are extra command-line arguments for the backend.
	Args []string `toml:"args"`

	// Host and Port form the endpoint the backend is expected to bind.
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// ProbeTimeoutMS bounds the pre-spawn liveness probe.
	ProbeTimeoutMS int `toml:"probe_timeout_ms"`

	// WorkDir is the backend's working directory. Empty means inherit.
	WorkDir string `toml:"work_dir"`
}

// LoggingConfig controls the host log.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// HooksConfig controls the Lua lifecycle hooks.
type HooksConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// UIConfig controls the host window.
type UIConfig struct {
	// TailLines bounds the in-memory backend output tail shown in the
	// window.
	TailLines int `toml:"tail_lines"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend: BackendConfig{
			Command:        "murmur-backend",
			Host:           "127.0.0.1",
			Port:           8000,
			ProbeTimeoutMS: 500,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Hooks: HooksConfig{
			Enabled: true,
		},
		UI: UIConfig{
			TailLines: 200,
		},
	}
}

// Endpoint returns the backend's host:port probe target.
func (c BackendConfig) Endpoint() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}

// ProbeTimeout returns the probe bound as a duration; zero when unset, in
// which case the probe applies its own default.
func (c BackendConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutMS) * time.Millisecond
}

// Load builds the effective configuration: defaults, then the TOML file at
// path (skipped when absent), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadTOML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// DefaultPath returns the conventional config file location, or an empty
// string when the user config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "murmur", "config.toml")
}
