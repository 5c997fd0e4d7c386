package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"taskpad/internal/config"
	"taskpad/internal/session"
	"taskpad/internal/task"
)

// withReadySession opens storage, hydrates a session, runs fn, and flushes
// pending saves before closing.
func withReadySession(ctx context.Context, cfg *config.Config, fn func(*session.Session) error) error {
	sess, kv, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	if err := sess.Hydrate(ctx); err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	sess.Flush()
	return nil
}

// lsCommand prints the current tasks, one per line.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskpad ls", flag.ContinueOnError)
	all := fs.Bool("all", true, "Include completed tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withReadySession(ctx, cfg, func(sess *session.Session) error {
		list := sess.List()
		if len(list) == 0 {
			fmt.Println("No tasks.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		for i := range list {
			t := &list[i]
			if t.Completed && !*all {
				continue
			}
			check := "[ ]"
			if t.Completed {
				check = "[x]"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, check, t.Text)
		}
		return w.Flush()
	})
}

// addCommand appends one task; the remaining arguments form its text.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("add requires task text")
	}

	return withReadySession(ctx, cfg, func(sess *session.Session) error {
		list, err := sess.ApplyWait(ctx, session.AddIntent{Text: text})
		if err != nil {
			return err
		}
		added := list[len(list)-1]
		fmt.Printf("Added %d: %s\n", added.ID, added.Text)
		return nil
	})
}

// doneCommand toggles the completed flag of one task.
func doneCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	return withReadySession(ctx, cfg, func(sess *session.Session) error {
		before := sess.List().Get(id)
		if before == nil {
			return fmt.Errorf("no task with id %d", id)
		}
		list, err := sess.ApplyWait(ctx, session.ToggleIntent{ID: id})
		if err != nil {
			return err
		}
		after := list.Get(id)
		state := "open"
		if after.Completed {
			state = "done"
		}
		fmt.Printf("Task %d is now %s: %s\n", id, state, after.Text)
		return nil
	})
}

// rmCommand removes one task. The interactive confirmation lives in the
// TUI; passing an explicit id here is the confirmation.
func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	return withReadySession(ctx, cfg, func(sess *session.Session) error {
		target := sess.List().Get(id)
		if target == nil {
			return fmt.Errorf("no task with id %d", id)
		}
		text := target.Text
		if _, err := sess.ApplyWait(ctx, session.RemoveIntent{ID: id}); err != nil {
			return err
		}
		fmt.Printf("Removed %d: %s\n", id, text)
		return nil
	})
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one task id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

// taskCount formats a count for doctor output.
func taskCount(list task.List) string {
	active, completed := list.Counts()
	return fmt.Sprintf("%d tasks (%d open, %d done)", len(list), active, completed)
}
