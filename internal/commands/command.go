// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"reminder/internal/config"
	"reminder/internal/reminder"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command works on the task store.
	// Commands like help, version, login, logout return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths).
	// store is nil if NeedsStore() returns false. It is already initialized
	// and may be shared between runs in the interactive shell.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, store *reminder.Store, args []string, out, errOut io.Writer) int
}
