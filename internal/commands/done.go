package commands

import (
	"context"
	"flag"
	"io"

	"reminder/internal/config"
	"reminder/internal/reminder"
)

func init() {
	Register(&DoneCmd{})
	Register(&ReopenCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	filter string
}

// SetFilter sets the filter name (for testing).
func (c *DoneCmd) SetFilter(name string) {
	c.filter = name
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "reminder done [--filter <name>] <n>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, store *reminder.Store, args []string, out, errOut io.Writer) int {
	complete := func(ctx context.Context, index int) error {
		return store.SetCompletion(ctx, index, true)
	}
	return runRowAction(ctx, cfg, store, c.filter, args, complete, out, errOut)
}

// ReopenCmd implements the reopen command. Without --filter the row refers to
// the current view, which in a fresh process is the pending one; use
// --filter completed to address finished tasks.
type ReopenCmd struct {
	filter string
}

// SetFilter sets the filter name (for testing).
func (c *ReopenCmd) SetFilter(name string) {
	c.filter = name
}

func (c *ReopenCmd) Name() string      { return "reopen" }
func (c *ReopenCmd) Aliases() []string { return []string{"undo"} }
func (c *ReopenCmd) Synopsis() string  { return "Mark a task pending again" }
func (c *ReopenCmd) Usage() string     { return "reminder reopen [--filter <name>] <n>" }
func (c *ReopenCmd) NeedsStore() bool  { return true }

func (c *ReopenCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
}

func (c *ReopenCmd) Run(ctx context.Context, cfg *config.Config, store *reminder.Store, args []string, out, errOut io.Writer) int {
	reopen := func(ctx context.Context, index int) error {
		return store.SetCompletion(ctx, index, false)
	}
	return runRowAction(ctx, cfg, store, c.filter, args, reopen, out, errOut)
}
