package commands

import (
	"context"
	"flag"
	"io"

	"reminder/internal/config"
	"reminder/internal/reminder"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	filter string
}

// SetFilter sets the filter name (for testing).
func (c *RmCmd) SetFilter(name string) {
	c.filter = name
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "reminder rm [--filter <name>] <n>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, store *reminder.Store, args []string, out, errOut io.Writer) int {
	return runRowAction(ctx, cfg, store, c.filter, args, store.Delete, out, errOut)
}
