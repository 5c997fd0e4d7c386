// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskpad/taskpad.toml or OS-specific config directory)
// 3. Project config file (taskpad.toml or .taskpad.toml in the working directory)
// 4. Environment variables (TASKPAD_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.taskpad/taskpad.toml (preferred)
// - Windows: %APPDATA%\taskpad\taskpad.toml
// - macOS: ~/Library/Application Support/taskpad/taskpad.toml
// - Linux/BSD: $XDG_CONFIG_HOME/taskpad/taskpad.toml or ~/.config/taskpad/taskpad.toml
package config
