package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment overrides win over both defaults and the config file. Empty
// values are treated as set.
const envPrefix = "MURMUR_"

func applyEnv(cfg *Config) {
	setString := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			if i, err := strconv.Atoi(v); err == nil {
				*dst = i
			}
		}
	}
	setBool := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			switch strings.ToLower(v) {
			case "true", "yes", "on", "1":
				*dst = true
			case "false", "no", "off", "0":
				*dst = false
			}
		}
	}

	setString("BACKEND_COMMAND", &cfg.Backend.Command)
	setString("BACKEND_PATH", &cfg.Backend.Path)
	setString("BACKEND_HOST", &cfg.Backend.Host)
	setInt("BACKEND_PORT", &cfg.Backend.Port)
	setInt("BACKEND_PROBE_TIMEOUT_MS", &cfg.Backend.ProbeTimeoutMS)
	setString("BACKEND_WORK_DIR", &cfg.Backend.WorkDir)

	setString("LOG_LEVEL", &cfg.Logging.Level)
	setString("LOG_FILE", &cfg.Logging.File)

	setBool("HOOKS_ENABLED", &cfg.Hooks.Enabled)
	setString("HOOKS_PATH", &cfg.Hooks.Path)

	setInt("UI_TAIL_LINES", &cfg.UI.TailLines)
}
