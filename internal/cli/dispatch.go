package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"reminder/internal/backend"
	"reminder/internal/commands"
	"reminder/internal/config"
	"reminder/internal/exitcode"
	"reminder/internal/reminder"
)

// StorageFactory opens the persistence backend from config.
// Used to inject the backend during dispatch.
type StorageFactory func(ctx context.Context, cfg *config.Config) (reminder.Persistence, error)

// NotifierFactory creates the alert notifier from config. Alerts printed to
// the terminal go to out.
type NotifierFactory func(cfg *config.Config, out io.Writer, logger log.FieldLogger) (reminder.Notifier, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	storage  StorageFactory
	alerts   NotifierFactory
	opts     []reminder.Option
	in       io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and factories.
// opts are applied to every store the dispatcher builds.
func NewDispatcher(registry *commands.Registry, storage StorageFactory, alerts NotifierFactory, opts ...reminder.Option) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		storage:  storage,
		alerts:   alerts,
		opts:     opts,
		in:       os.Stdin,
	}
}

// SetInput sets the reader the interactive shell reads lines from.
func (d *Dispatcher) SetInput(r io.Reader) {
	d.in = r
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	if cmdName == shellName {
		return d.runShell(ctx, args[1:], out, errOut)
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	common, positionalArgs, code := parseFlags(cmd, args, true, errOut)
	if code != exitcode.Success {
		return code
	}

	cfg, code := loadConfig(common, errOut)
	if code != exitcode.Success {
		return code
	}
	logger := newLogger(cfg, errOut)

	// Open the store only for commands working on tasks
	var store *reminder.Store
	if cmd.NeedsStore() {
		sess, code := d.open(ctx, cfg, logger, out, errOut)
		if code != exitcode.Success {
			return code
		}
		defer sess.close()
		store = sess.store
	}

	// Run command
	return cmd.Run(ctx, cfg, store, positionalArgs, out, errOut)
}

// commonFlags holds the flags every command accepts.
type commonFlags struct {
	configDir string
	backend   string
	quiet     bool
	debug     bool
}

// parseFlags parses args against the command's flags, plus the common flags
// when withCommon is set. cmd may be nil.
func parseFlags(cmd commands.Command, args []string, withCommon bool, errOut io.Writer) (commonFlags, []string, int) {
	name := shellName
	if cmd != nil {
		name = cmd.Name()
	}

	// Create flag set with custom error handling
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	if withCommon {
		fs.StringVar(&common.configDir, "config", "", "")
		fs.StringVar(&common.backend, "backend", "", "")
		fs.BoolVar(&common.quiet, "quiet", false, "")
		fs.BoolVar(&common.debug, "debug", false, "")
	}

	// Register command-specific flags
	if cmd != nil {
		cmd.RegisterFlags(fs)
	}

	if err := fs.Parse(args); err != nil {
		errStr := err.Error()

		// Check for missing flag value
		if strings.HasPrefix(errStr, "flag needs an argument:") {
			flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
			return common, nil, exitcode.UserError
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return common, nil, exitcode.UserError
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return common, nil, exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return common, nil, exitcode.UserError
	}

	return common, positionalArgs, exitcode.Success
}

// loadConfig builds the config and applies the common flags on top of it.
func loadConfig(common commonFlags, errOut io.Writer) (*config.Config, int) {
	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.UserError
	}
	if common.backend != "" {
		cfg.Backend = strings.ToLower(common.backend)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return nil, exitcode.UserError
		}
	}
	cfg.Quiet = common.quiet
	cfg.Debug = cfg.Debug || common.debug
	return cfg, exitcode.Success
}

// newLogger creates the logger shared by the store, backends and scheduler.
func newLogger(cfg *config.Config, errOut io.Writer) *log.Logger {
	logger := log.New()
	logger.SetOutput(errOut)
	logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true, DisableColors: true})
	switch {
	case cfg.Debug:
		logger.SetLevel(log.DebugLevel)
	case cfg.Quiet:
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// session is an initialized store plus the resources behind it.
type session struct {
	store   *reminder.Store
	closers []func()
}

func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// open builds and initializes the store. A backend that cannot be opened
// leaves the store empty with every operation failing; only missing Google
// credentials abort with an auth error.
func (d *Dispatcher) open(ctx context.Context, cfg *config.Config, logger *log.Logger, out, errOut io.Writer) (*session, int) {
	sess := &session{}

	var p reminder.Persistence
	err := errors.New("no storage configured")
	if d.storage != nil {
		p, err = d.storage(ctx, cfg)
	}
	if err != nil {
		if errors.Is(err, backend.ErrAuth) {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return nil, exitcode.AuthError
		}
		logger.WithError(err).WithField("backend", cfg.Backend).Error("could not open backend")
		p = reminder.Unavailable(err)
	} else if c, ok := p.(io.Closer); ok {
		sess.closers = append(sess.closers, func() {
			if err := c.Close(); err != nil {
				logger.WithError(err).Warn("could not close backend")
			}
		})
	}

	var n reminder.Notifier
	if d.alerts != nil {
		n, err = d.alerts(cfg, out, logger)
		if err != nil {
			logger.WithError(err).Warn("alerts disabled")
			n = nil
		} else if s, ok := n.(interface{ Stop() }); ok {
			sess.closers = append(sess.closers, s.Stop)
		}
	}

	opts := append([]reminder.Option{reminder.WithLogger(logger)}, d.opts...)
	sess.store = reminder.NewStore(p, n, opts...)

	// A failed load is logged by the store and leaves it empty
	_ = sess.store.Initialize(ctx)

	return sess, exitcode.Success
}
