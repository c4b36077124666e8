package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"reminder/internal/config"
	"reminder/internal/exitcode"
	"reminder/internal/reminder"
)

func init() {
	Register(&AddCmd{})
	Register(&CreateCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	due string
}

// SetDue sets the due date (for testing).
func (c *AddCmd) SetDue(due string) {
	c.due = due
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "reminder add --due <when> <title...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.due, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, store *reminder.Store, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, store, c.due, args, out, errOut)
}

// CreateCmd is an alias for AddCmd.
type CreateCmd struct {
	due string
}

// SetDue sets the due date (for testing).
func (c *CreateCmd) SetDue(due string) {
	c.due = due
}

func (c *CreateCmd) Name() string      { return "create" }
func (c *CreateCmd) Aliases() []string { return nil }
func (c *CreateCmd) Synopsis() string  { return "Create a task (alias for add)" }
func (c *CreateCmd) Usage() string     { return "reminder create --due <when> <title...>" }
func (c *CreateCmd) NeedsStore() bool  { return true }

func (c *CreateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.due, "d", "", "")
}

func (c *CreateCmd) Run(ctx context.Context, cfg *config.Config, store *reminder.Store, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, store, c.due, args, out, errOut)
}

// runAdd is the shared implementation for add and create commands.
func runAdd(ctx context.Context, cfg *config.Config, store *reminder.Store, due string, args []string, out, errOut io.Writer) int {
	// Join args to form title
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	if strings.TrimSpace(due) == "" {
		fmt.Fprintln(errOut, "error: due date required")
		return exitcode.UserError
	}
	dueDate, err := ParseDue(due, store.Now(), cfg.Loc())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if _, err := store.Create(ctx, title, dueDate, false); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
