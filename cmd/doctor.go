package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"taskpad/internal/config"
	"taskpad/internal/storage"
)

// doctorCommand checks the data directory, storage backend, and stored
// task list, reporting each result without aborting on the first failure.
func doctorCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskpad doctor", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Printf("Data dir:  %s\n", cfg.DataDir)
	fmt.Printf("Storage:   %s (%s)\n", cfg.Storage, cfg.StorePath())

	failed := false

	if info, err := os.Stat(cfg.DataDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Data dir:  not created yet (will be created on first use)")
		} else {
			fmt.Printf("Data dir:  FAIL: %v\n", err)
			failed = true
		}
	} else if !info.IsDir() {
		fmt.Println("Data dir:  FAIL: exists but is not a directory")
		failed = true
	}

	kv, err := openKV(cfg)
	if err != nil {
		fmt.Printf("Backend:   FAIL: %v\n", err)
		return fmt.Errorf("doctor found problems")
	}
	defer kv.Close()
	fmt.Println("Backend:   ok")

	list, err := storage.NewGateway(kv).Load(ctx)
	switch {
	case errors.Is(err, storage.ErrCorruptData):
		fmt.Printf("Task list: CORRUPT: %v\n", err)
		fmt.Println("           The stored data exists but does not parse.")
		fmt.Println("           Fix or move it aside; taskpad will not overwrite it silently.")
		failed = true
	case err != nil:
		fmt.Printf("Task list: FAIL: %v\n", err)
		failed = true
	default:
		fmt.Printf("Task list: ok, %s\n", taskCount(list))
	}

	if failed {
		return fmt.Errorf("doctor found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}
