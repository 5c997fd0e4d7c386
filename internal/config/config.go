package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Storage backend names.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Default values.
const (
	DefaultDataDir   = "~/.taskpad"
	DefaultStorage   = StorageFile
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for taskpad.
type Config struct {
	// DataDir is where the task store lives.
	DataDir string `toml:"data_dir"`

	// Storage selects the key-value backend: "file" or "sqlite".
	Storage string `toml:"storage"`

	// Logging configuration
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// NoColor disables styled TUI output.
	NoColor bool `toml:"no_color"`
}

// Load loads configuration from defaults, config files, environment
// variables, and CLI flags, in that order.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if userFile := findUserConfigFile(); userFile != "" {
		if err := loadConfigFile(cfg, userFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userFile, err)
		}
	}
	if projFile := findProjectConfigFile(); projFile != "" {
		if err := loadConfigFile(cfg, projFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projFile, err)
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Storage = DefaultStorage
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

func loadConfigFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	return nil
}

func finalize(cfg *Config) error {
	cfg.DataDir = expandPath(cfg.DataDir)
	switch cfg.Storage {
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q (want %q or %q)", cfg.Storage, StorageFile, StorageSQLite)
	}
	return nil
}

// StorePath returns the on-disk location of the selected backend inside the
// data dir.
func (c *Config) StorePath() string {
	if c.Storage == StorageSQLite {
		return filepath.Join(c.DataDir, "taskpad.db")
	}
	return c.DataDir
}

// findUserConfigFile returns the path to the user-level config file, or ""
// if none exists.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		candidate := filepath.Join(home, ".taskpad", "taskpad.toml")
		if fileExists(candidate) {
			return candidate
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(dir, "taskpad", "taskpad.toml")
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// findProjectConfigFile returns the config file in the working directory,
// or "" if none exists.
func findProjectConfigFile() string {
	for _, name := range []string{"taskpad.toml", ".taskpad.toml"} {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
