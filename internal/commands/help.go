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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command. With a command name it prints that
// command's usage.
type HelpCmd struct {
	// Registry resolves command names. Nil means DefaultRegistry.
	Registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "reminder help [command]" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, store *reminder.Store, args []string, out, errOut io.Writer) int {
	registry := c.Registry
	if registry == nil {
		registry = DefaultRegistry
	}

	switch len(args) {
	case 0:
		fmt.Fprint(out, helpText)
		writeAliases(out, registry)
		return exitcode.Success
	case 1:
		cmd, ok := registry.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		fmt.Fprintf(out, "Usage: %s\n  %s\n", cmd.Usage(), cmd.Synopsis())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(out, "Aliases: %s\n", strings.Join(aliases, ", "))
		}
		return exitcode.Success
	default:
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}
}

// writeAliases lists the alias of every command that has one.
func writeAliases(out io.Writer, registry *Registry) {
	var lines []string
	for _, cmd := range registry.All() {
		for _, alias := range cmd.Aliases() {
			lines = append(lines, fmt.Sprintf("  %-10s %s\n", alias, cmd.Name()))
		}
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprint(out, "\nAliases:\n")
	for _, line := range lines {
		fmt.Fprint(out, line)
	}
}

const helpText = `Usage:
  reminder                                        List pending tasks
  reminder list [common flags] [--filter <name>]  List tasks in a view
  reminder filter [common flags] <name>           Switch view and list it
  reminder add [common flags] --due <when> <title...>
  reminder create [common flags] --due <when> <title...>
  reminder done [common flags] [--filter <name>] <n>
  reminder reopen [common flags] [--filter <name>] <n>
  reminder rm [common flags] [--filter <name>] <n>
  reminder watch [common flags]                   Deliver alerts until interrupted
  reminder shell [common flags]                   Interactive session
  reminder login [common flags]
  reminder logout [common flags]
  reminder help [command]
  reminder version

Views:
  pending     Open tasks (default)
  completed   Finished tasks
  overdue     Open tasks past their due date

Due dates:
  2026-10-19T18:30:00+02:00, "2026-10-19 18:30", 2026-10-19, 18:30, +90m

Common flags:
  --config <dir>     Override config directory
  --backend <name>   Storage backend: file, redis, mysql, google
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
