package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-shellwords"

	"reminder/internal/config"
	"reminder/internal/exitcode"
	"reminder/internal/reminder"
)

const (
	shellName   = "shell"
	shellPrompt = "> "
)

// notInShell lists commands that make no sense inside a shell session.
var notInShell = map[string]bool{
	"watch":  true,
	"login":  true,
	"logout": true,
}

// runShell runs an interactive session: one store, one filter state and one
// scheduler shared by every line until EOF, exit or cancellation. Pending
// alerts are armed on start and fire while the session runs.
func (d *Dispatcher) runShell(ctx context.Context, args []string, out, errOut io.Writer) int {
	common, positionalArgs, code := parseFlags(nil, args, true, errOut)
	if code != exitcode.Success {
		return code
	}
	if len(positionalArgs) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, code := loadConfig(common, errOut)
	if code != exitcode.Success {
		return code
	}
	logger := newLogger(cfg, errOut)

	sess, code := d.open(ctx, cfg, logger, out, errOut)
	if code != exitcode.Success {
		return code
	}
	defer sess.close()

	armed := sess.store.ArmAlerts()
	logger.WithField("alerts", armed).Debug("alerts armed")
	if !cfg.Quiet {
		fmt.Fprintln(out, "type help for commands, exit to quit")
	}

	// Read lines in the background so cancellation is not stuck behind a
	// blocking read.
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(d.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		if !cfg.Quiet {
			fmt.Fprint(out, shellPrompt)
		}
		select {
		case <-ctx.Done():
			return exitcode.Success
		case line, ok := <-lines:
			if !ok {
				return exitcode.Success
			}
			if d.runLine(ctx, cfg, sess.store, line, out, errOut) {
				return exitcode.Success
			}
		}
	}
}

// runLine runs one shell line. It returns true when the session should end.
func (d *Dispatcher) runLine(ctx context.Context, cfg *config.Config, store *reminder.Store, line string, out, errOut io.Writer) bool {
	fields, err := splitLine(line)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return false
	}
	if len(fields) == 0 {
		return false
	}

	name := fields[0]
	switch strings.ToLower(name) {
	case "exit", "quit":
		return true
	case shellName:
		fmt.Fprintf(errOut, "error: not available in shell: %s\n", name)
		return false
	}

	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return false
	}
	if notInShell[cmd.Name()] {
		fmt.Fprintf(errOut, "error: not available in shell: %s\n", name)
		return false
	}

	_, positionalArgs, code := parseFlags(cmd, fields[1:], false, errOut)
	if code != exitcode.Success {
		return false
	}

	var st *reminder.Store
	if cmd.NeedsStore() {
		st = store
	}
	cmd.Run(ctx, cfg, st, positionalArgs, out, errOut)
	return false
}

// splitLine splits a shell line into words with shell quoting rules, as in
// `add --due "2026-10-20 18:00" Buy milk`. Pipes, redirects and command
// separators are rejected.
func splitLine(line string) ([]string, error) {
	p := shellwords.NewParser()
	fields, err := p.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("unterminated quote or escape")
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("unsupported shell operator in: %s", line)
	}
	return fields, nil
}
