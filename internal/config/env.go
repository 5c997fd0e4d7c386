package config

import (
	"os"
	"strconv"
)

// loadFromEnv overrides config from TASKPAD_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKPAD_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TASKPAD_STORAGE"); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv("TASKPAD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKPAD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TASKPAD_NO_COLOR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.NoColor = b
		}
	}
	// NO_COLOR is the conventional cross-tool switch.
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.NoColor = true
	}
}
