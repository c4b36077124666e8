package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"reminder/internal/config"
	"reminder/internal/exitcode"
	"reminder/internal/reminder"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd implements the watch command. It arms alerts for every pending task
// that is not yet due and keeps the process alive until ctx is cancelled so
// they can fire.
type WatchCmd struct{}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "Wait for and deliver alerts" }
func (c *WatchCmd) Usage() string     { return "reminder watch [common flags]" }
func (c *WatchCmd) NeedsStore() bool  { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, store *reminder.Store, args []string, out, errOut io.Writer) int {
	n := store.ArmAlerts()
	if !cfg.Quiet {
		fmt.Fprintf(out, "watching %d alert(s), press Ctrl-C to stop\n", n)
	}
	<-ctx.Done()
	return exitcode.Success
}
