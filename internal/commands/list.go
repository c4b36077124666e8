package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"reminder/internal/config"
	"reminder/internal/exitcode"
	"reminder/internal/output"
	"reminder/internal/reminder"
)

func init() {
	Register(&ListCmd{})
	Register(&FilterCmd{})
}

// ListCmd implements the list command.
// Handles both `reminder` (no args) and `reminder list`.
type ListCmd struct {
	filter string
}

// SetFilter sets the filter name (for testing).
func (c *ListCmd) SetFilter(name string) {
	c.filter = name
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "reminder list [--filter <name>]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, store *reminder.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if code := selectView(store, c.filter, errOut); code != exitcode.Success {
		return code
	}
	printView(cfg, store, out)
	return exitcode.Success
}

// FilterCmd implements the filter command. It switches the view and lists it
// under a header naming the filter.
type FilterCmd struct{}

func (c *FilterCmd) Name() string      { return "filter" }
func (c *FilterCmd) Aliases() []string { return nil }
func (c *FilterCmd) Synopsis() string  { return "Switch the view and list it" }
func (c *FilterCmd) Usage() string     { return "reminder filter pending|completed|overdue" }
func (c *FilterCmd) NeedsStore() bool  { return true }

func (c *FilterCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *FilterCmd) Run(ctx context.Context, cfg *config.Config, store *reminder.Store, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: filter name required")
		return exitcode.UserError
	}
	if code := selectView(store, args[0], errOut); code != exitcode.Success {
		return code
	}

	output.FormatViewHeader(out, store.Filter())
	printView(cfg, store, out)
	return exitcode.Success
}
