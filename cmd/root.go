// Package cmd implements the CLI command structure for taskpad.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"taskpad/internal/config"
	"taskpad/internal/logging"
	"taskpad/internal/session"
	"taskpad/internal/storage"
	"taskpad/internal/storage/filekv"
	"taskpad/internal/storage/sqlitekv"
	"taskpad/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskpad CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskpad", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand; with no args the TUI is the default.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls":
		return lsCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "done":
		return doneCommand(ctx, cfg, remainingArgs)
	case "rm":
		return rmCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, cfg, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openKV opens the configured key-value backend.
func openKV(cfg *config.Config) (storage.KV, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		return sqlitekv.Open(cfg.StorePath())
	default:
		return filekv.Open(cfg.StorePath())
	}
}

// newSession wires the storage backend, gateway, and logger into a fresh
// session. The caller owns the returned KV and must close it.
func newSession(cfg *config.Config) (*session.Session, storage.KV, error) {
	kv, err := openKV(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s storage: %w", cfg.Storage, err)
	}
	opts := logging.DefaultOptions()
	opts.Level = logging.ParseLevel(cfg.LogLevel)
	opts.Formatter = logging.ParseFormatter(cfg.LogFormat)
	logger := logging.New(os.Stderr, opts)
	return session.New(storage.NewGateway(kv), logger), kv, nil
}

// tuiCommand launches the single-screen interface.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskpad tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	sess, kv, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	return ui.RunTUI(ctx, cfg, sess)
}

func versionCommand() error {
	fmt.Printf("taskpad %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `taskpad - a single-screen to-do list for your terminal

Usage:
  taskpad [flags]             Open the to-do screen (default)
  taskpad ls                  Print the current tasks
  taskpad add <text...>       Add a task
  taskpad done <id>           Toggle a task's completed flag
  taskpad rm <id>             Remove a task
  taskpad doctor              Check config and storage health
  taskpad version             Show version
  taskpad help                Show this help

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
