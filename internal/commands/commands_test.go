package commands_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"reminder/internal/commands"
	"reminder/internal/config"
	"reminder/internal/exitcode"
	"reminder/internal/reminder"
	"reminder/internal/testutil"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

// seeded returns a persistence holding one upcoming, one overdue and one
// completed task.
func seeded() *testutil.FakePersistence {
	p := testutil.NewFakePersistence()
	p.AddTask("Buy milk", now.Add(time.Hour), false)
	p.AddTask("Pay rent", now.Add(-2*time.Hour), false)
	p.AddTask("Call mom", now.Add(-24*time.Hour), true)
	return p
}

// newStore creates an initialized store over p with a fixed clock.
func newStore(t *testing.T, p *testutil.FakePersistence) (*reminder.Store, *testutil.FakeNotifier) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	n := &testutil.FakeNotifier{}
	store := reminder.NewStore(p, n, reminder.WithLogger(logger), reminder.WithClock(testutil.Clock(now)))
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return store, n
}

// runCommand is a helper to run a command against a store.
func runCommand(t *testing.T, cmd commands.Command, store *reminder.Store, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:      t.TempDir(),
		Quiet:    quiet,
		Location: time.UTC,
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, store, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "reminder 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("help output should contain 'Usage:'")
	}
}

// Tests for list command
func TestListCommand_Pending(t *testing.T) {
	store, _ := newStore(t, seeded())

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, store, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list_pending", stdout)
}

func TestListCommand_Completed(t *testing.T) {
	store, _ := newStore(t, seeded())

	cmd := &commands.ListCmd{}
	cmd.SetFilter("completed")
	stdout, _, code := runCommand(t, cmd, store, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  [x] Call mom  (due 2026-10-18 12:00)\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
	if store.Filter() != reminder.Completed {
		t.Errorf("expected filter to stay completed, got %v", store.Filter())
	}
}

func TestListCommand_Empty(t *testing.T) {
	store, _ := newStore(t, testutil.NewFakePersistence())

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, store, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	store, _ := newStore(t, testutil.NewFakePersistence())

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, store, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" || stderr != "" {
		t.Errorf("expected no output in quiet mode, got %q / %q", stdout, stderr)
	}
}

func TestListCommand_UnknownFilter(t *testing.T) {
	store, _ := newStore(t, seeded())

	cmd := &commands.ListCmd{}
	cmd.SetFilter("later")
	stdout, stderr, code := runCommand(t, cmd, store, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: unknown filter: later\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_UnexpectedArgument(t *testing.T) {
	store, _ := newStore(t, seeded())

	_, stderr, code := runCommand(t, &commands.ListCmd{}, store, []string{"work"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: work\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for filter command
func TestFilterCommand_Overdue(t *testing.T) {
	store, _ := newStore(t, seeded())

	stdout, stderr, code := runCommand(t, &commands.FilterCmd{}, store, []string{"overdue"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "filter_overdue", stdout)
}

func TestFilterCommand_NoName(t *testing.T) {
	store, _ := newStore(t, seeded())

	_, stderr, code := runCommand(t, &commands.FilterCmd{}, store, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: filter name required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	p := seeded()
	store, n := newStore(t, p)

	cmd := &commands.AddCmd{}
	cmd.SetDue("+2h")
	stdout, stderr, code := runCommand(t, cmd, store, []string{"Water", "plants"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	records := p.Records()
	last := records[len(records)-1]
	if last.Title != "Water plants" || !last.DueDate.Equal(now.Add(2*time.Hour)) {
		t.Errorf("unexpected stored task: %+v", last)
	}

	alerts := n.Alerts()
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].After != 2*time.Hour || alerts[0].Title != reminder.AlertTitle || alerts[0].Body != "Water plants" {
		t.Errorf("unexpected alert: %+v", alerts[0])
	}
	if store.Count() != 3 {
		t.Errorf("expected 3 pending rows, got %d", store.Count())
	}
}

func TestAddCommand_PastDue(t *testing.T) {
	p := testutil.NewFakePersistence()
	store, n := newStore(t, p)

	cmd := &commands.CreateCmd{}
	cmd.SetDue("2026-10-18 08:00")
	_, _, code := runCommand(t, cmd, store, []string{"Renew passport"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if len(n.Alerts()) != 0 {
		t.Errorf("expected no alert for a past due date, got %d", len(n.Alerts()))
	}
	store.ApplyFilter(reminder.Overdue)
	if store.Count() != 1 {
		t.Errorf("expected task in overdue view, got %d rows", store.Count())
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	store, _ := newStore(t, testutil.NewFakePersistence())

	cmd := &commands.AddCmd{}
	cmd.SetDue("18:00")
	stdout, stderr, code := runCommand(t, cmd, store, []string{"Buy milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" || stderr != "" {
		t.Errorf("expected no output in quiet mode, got %q / %q", stdout, stderr)
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	store, _ := newStore(t, testutil.NewFakePersistence())

	cmd := &commands.AddCmd{}
	cmd.SetDue("+1h")
	_, stderr, code := runCommand(t, cmd, store, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAddCommand_NoDue(t *testing.T) {
	p := testutil.NewFakePersistence()
	store, _ := newStore(t, p)

	_, stderr, code := runCommand(t, &commands.AddCmd{}, store, []string{"Buy milk"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: due date required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(p.Records()) != 0 {
		t.Error("nothing should be stored without a due date")
	}
}

func TestAddCommand_InvalidDue(t *testing.T) {
	store, _ := newStore(t, testutil.NewFakePersistence())

	cmd := &commands.AddCmd{}
	cmd.SetDue("tomorrow")
	_, stderr, code := runCommand(t, cmd, store, []string{"Buy milk"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid due date: tomorrow\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAddCommand_BackendFailure(t *testing.T) {
	p := seeded()
	store, n := newStore(t, p)
	p.InsertErr = fmt.Errorf("%w: disk full", reminder.ErrPersistenceWrite)

	cmd := &commands.AddCmd{}
	cmd.SetDue("+1h")
	stdout, stderr, code := runCommand(t, cmd, store, []string{"Buy eggs"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "error: backend error: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(n.Alerts()) != 0 {
		t.Error("no alert should be scheduled when the save fails")
	}
	if len(store.Tasks()) != 3 {
		t.Errorf("expected 3 tasks in memory, got %d", len(store.Tasks()))
	}
}

// Tests for done command
func TestDoneCommand_Success(t *testing.T) {
	p := seeded()
	store, _ := newStore(t, p)

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, store, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if !p.Records()[0].IsCompleted {
		t.Error("Buy milk should be completed")
	}
	if store.Count() != 1 {
		t.Errorf("expected task to leave the pending view, got %d rows", store.Count())
	}
}

func TestDoneCommand_WithFilter(t *testing.T) {
	p := seeded()
	store, _ := newStore(t, p)

	cmd := &commands.DoneCmd{}
	cmd.SetFilter("overdue")
	_, _, code := runCommand(t, cmd, store, []string{"1"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if len(p.Updated) != 1 || p.Updated[0] != "task-2" {
		t.Errorf("expected task-2 to be updated, got %v", p.Updated)
	}
	if store.Count() != 0 {
		t.Errorf("expected empty overdue view, got %d rows", store.Count())
	}
}

func TestDoneCommand_NoRef(t *testing.T) {
	store, _ := newStore(t, seeded())

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, store, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task number required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_InvalidRef(t *testing.T) {
	store, _ := newStore(t, seeded())

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, store, []string{"x"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid task reference: x\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_OutOfRange(t *testing.T) {
	p := seeded()
	store, _ := newStore(t, p)

	for _, ref := range []string{"0", "5"} {
		_, stderr, code := runCommand(t, &commands.DoneCmd{}, store, []string{ref}, false)

		if code != exitcode.UserError {
			t.Errorf("%s: expected exit code %d, got %d", ref, exitcode.UserError, code)
		}
		expected := "error: task number out of range: " + ref + "\n"
		if stderr != expected {
			t.Errorf("expected %q, got %q", expected, stderr)
		}
	}
	if len(p.Updated) != 0 {
		t.Errorf("backend should not be touched, got %v", p.Updated)
	}
}

func TestDoneCommand_BackendFailure(t *testing.T) {
	p := seeded()
	store, _ := newStore(t, p)
	p.UpdateCompletionErr = fmt.Errorf("%w: timeout", reminder.ErrPersistenceWrite)

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, store, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.HasPrefix(stderr, "error: backend error: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	// The in-memory change is kept even though the backend failed.
	if store.Count() != 1 {
		t.Errorf("expected 1 pending row, got %d", store.Count())
	}
}

// Tests for reopen command
func TestReopenCommand_Success(t *testing.T) {
	p := seeded()
	store, _ := newStore(t, p)

	cmd := &commands.ReopenCmd{}
	cmd.SetFilter("completed")
	stdout, _, code := runCommand(t, cmd, store, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if p.Records()[2].IsCompleted {
		t.Error("Call mom should be pending again")
	}
	if store.Count() != 0 {
		t.Errorf("expected empty completed view, got %d rows", store.Count())
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	p := seeded()
	store, _ := newStore(t, p)

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, store, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if len(p.Deleted) != 1 || p.Deleted[0] != "task-2" {
		t.Errorf("expected task-2 to be deleted, got %v", p.Deleted)
	}
	if len(store.Tasks()) != 2 {
		t.Errorf("expected 2 tasks left, got %d", len(store.Tasks()))
	}
}

func TestRmCommand_NoRef(t *testing.T) {
	store, _ := newStore(t, seeded())

	_, stderr, code := runCommand(t, &commands.RmCmd{}, store, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task number required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for watch command
func TestWatchCommand_ArmsAlertsUntilCancelled(t *testing.T) {
	store, n := newStore(t, seeded())

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir(), Location: time.UTC}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := (&commands.WatchCmd{}).Run(ctx, cfg, store, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "watching 1 alert(s), press Ctrl-C to stop\n" {
		t.Errorf("unexpected stdout %q", outBuf.String())
	}
	alerts := n.Alerts()
	if len(alerts) != 1 || alerts[0].Body != "Buy milk" || alerts[0].After != time.Hour {
		t.Errorf("unexpected alerts: %+v", alerts)
	}
}

// Tests for the registry
func TestRegistry_DuplicateAlias(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.RmCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&commands.RmCmd{}); err == nil {
		t.Error("expected error registering rm twice")
	}
	if cmd, ok := r.Find("delete"); !ok || cmd.Name() != "rm" {
		t.Error("expected delete to resolve to rm")
	}
}

func TestRegistry_FindIgnoresCase(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"list", "List", " LS "} {
		if cmd, ok := r.Find(name); !ok || cmd.Name() != "list" {
			t.Errorf("expected %q to resolve to list", name)
		}
	}
}

func TestRegistry_AllInHelpOrder(t *testing.T) {
	var names []string
	for _, cmd := range commands.DefaultRegistry.All() {
		names = append(names, cmd.Name())
	}
	want := "list filter add create done reopen rm watch login logout help version"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHelpCommand_ListsAliases(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	want := "\nAliases:\n  ls         list\n  undo       reopen\n  delete     rm\n"
	if !strings.HasSuffix(stdout, want) {
		t.Errorf("expected help to end with %q, got %q", want, stdout)
	}
}

func TestHelpCommand_Topic(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, []string{"undo"}, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	want := "Usage: reminder reopen [--filter <name>] <n>\n  Mark a task pending again\nAliases: undo\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestHelpCommand_UnknownTopic(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, []string{"frobnicate"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown command: frobnicate\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
