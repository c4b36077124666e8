package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"reminder/internal/config"
	"reminder/internal/exitcode"
	"reminder/internal/output"
	"reminder/internal/reminder"
)

// printView prints the rows of the store's filtered view.
func printView(cfg *config.Config, store *reminder.Store, out io.Writer) {
	rows := store.Visible()
	if len(rows) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return
	}

	now := store.Now()
	for i, task := range rows {
		output.FormatTask(out, i+1, task, now, cfg.Loc())
	}
}

// selectView applies the named filter. An empty name keeps the current one.
func selectView(store *reminder.Store, name string, errOut io.Writer) int {
	if name == "" {
		return exitcode.Success
	}
	f, err := reminder.ParseFilter(name)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	store.ApplyFilter(f)
	return exitcode.Success
}

// rowAction is a store mutation addressed by a filtered row index.
type rowAction func(ctx context.Context, index int) error

// runRowAction is the shared implementation for done, reopen and rm.
func runRowAction(ctx context.Context, cfg *config.Config, store *reminder.Store, filterName string, args []string, action rowAction, out, errOut io.Writer) int {
	// Parse row reference
	index, err := ParseRowRef(args)
	if err != nil {
		if err == ErrRowRefRequired {
			fmt.Fprintln(errOut, "error: task number required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	// Row numbers refer to the selected view
	if code := selectView(store, filterName, errOut); code != exitcode.Success {
		return code
	}

	if err := action(ctx, index); err != nil {
		if errors.Is(err, reminder.ErrIndexOutOfRange) {
			fmt.Fprintf(errOut, "error: task number out of range: %d\n", index+1)
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
