// Package main is the entry point for the reminder CLI.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"reminder/internal/backend"
	"reminder/internal/cli"
	"reminder/internal/commands"
	"reminder/internal/config"
	"reminder/internal/notify"
	"reminder/internal/reminder"
)

func main() {
	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Alerts go to the terminal or to redis, as configured
	alerts := func(cfg *config.Config, out io.Writer, logger log.FieldLogger) (reminder.Notifier, error) {
		s, err := notify.FromConfig(cfg, out, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, backend.Open, alerts)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
