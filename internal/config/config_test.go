package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// chdir stands in for t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Errorf("restore wd: %v", err)
		}
	})
}

func TestDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(nil, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage != StorageFile {
		t.Errorf("Storage: got %q, want %q", cfg.Storage, StorageFile)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.DataDir == DefaultDataDir {
		t.Error("DataDir was not expanded")
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TASKPAD_STORAGE", "sqlite")
	t.Setenv("TASKPAD_LOG_LEVEL", "debug")

	cfg, err := Load(nil, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage != StorageSQLite {
		t.Errorf("Storage: got %q, want %q", cfg.Storage, StorageSQLite)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TASKPAD_STORAGE", "sqlite")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, []string{"-storage", "file"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage != StorageFile {
		t.Errorf("Storage: got %q, want %q", cfg.Storage, StorageFile)
	}
}

func TestProjectConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())

	content := "storage = \"sqlite\"\nlog_level = \"info\"\n"
	if err := os.WriteFile(filepath.Join(dir, "taskpad.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(nil, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage != StorageSQLite {
		t.Errorf("Storage: got %q, want %q", cfg.Storage, StorageSQLite)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "info")
	}
}

func TestInvalidStorageRejected(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TASKPAD_STORAGE", "redis")

	if _, err := Load(nil, nil); err == nil {
		t.Error("Load succeeded with unknown storage backend")
	}
}

func TestNoColorEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NO_COLOR", "1")

	cfg, err := Load(nil, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.NoColor {
		t.Error("NoColor not set from NO_COLOR")
	}
}

func TestStorePath(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/data", Storage: StorageSQLite}
	if got := cfg.StorePath(); got != filepath.Join("/tmp/data", "taskpad.db") {
		t.Errorf("StorePath: got %q", got)
	}

	cfg.Storage = StorageFile
	if got := cfg.StorePath(); got != "/tmp/data" {
		t.Errorf("StorePath: got %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/.taskpad", filepath.Join(home, ".taskpad")},
		{"/absolute/path", "/absolute/path"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
