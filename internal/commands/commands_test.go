package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"vatask/internal/commands"
	"vatask/internal/config"
	"vatask/internal/exitcode"
	"vatask/internal/service"
	"vatask/internal/testutil"
)

var errStore = &service.StoreError{Op: "list", StatusCode: 500, Err: errors.New("boom")}

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}
	return runWithConfig(t, cmd, cfg, svc, args)
}

func runWithConfig(t *testing.T, cmd commands.Command, cfg *config.Config, svc *testutil.FakeService, args []string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	var s service.Service
	if svc != nil {
		s = svc
	}
	code = cmd.Run(context.Background(), cfg, s, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func expectCode(t *testing.T, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}

func expectOutput(t *testing.T, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stderr)
	expectOutput(t, "vatask 0.1.0\n", stdout)
}

func TestVersionCommand_VerboseShowsPaths(t *testing.T) {
	cmd := &commands.VersionCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"-v"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg := &config.Config{Dir: t.TempDir()}

	stdout, _, code := runWithConfig(t, cmd, cfg, nil, nil)

	expectCode(t, exitcode.Success, code)
	if !strings.HasPrefix(stdout, "vatask 0.1.0\n") {
		t.Errorf("unexpected first line: %q", stdout)
	}
	for _, path := range []string{cfg.SettingsPath(), cfg.CredentialsPath(), cfg.LogPath()} {
		if !strings.Contains(stdout, path) {
			t.Errorf("expected %s in output:\n%s", path, stdout)
		}
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stderr)
	for _, want := range []string{"Usage:", "dashboard", "tasks", "settings", "SITE_URL"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

func TestHelpCommand_OneCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.HelpCmd{}, nil, []string{"ls"}, false)

	expectCode(t, exitcode.Success, code)
	if !strings.Contains(stdout, "vatask tasks [--page <n>]") {
		t.Errorf("expected tasks usage, got %q", stdout)
	}
	if !strings.Contains(stdout, "Aliases: ls") {
		t.Errorf("expected aliases, got %q", stdout)
	}
}

func TestHelpCommand_Unknown(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, []string{"nope"}, false)

	expectCode(t, exitcode.UserError, code)
	expectOutput(t, "error: unknown command: nope\n", stderr)
}

// Tests for dashboard command
func TestDashboardCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "Completed", "")
	svc.AddTask("Call Bob", "Pending", "2025-04-01")

	stdout, stderr, code := runCommand(t, &commands.DashboardCmd{}, svc, nil, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stderr)
	for _, want := range []string{"Total Tasks", "Recent Tasks", "Buy milk", "Call Bob", "2025-04-01"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("dashboard should contain %q:\n%s", want, stdout)
		}
	}
}

func TestDashboardCommand_LoadFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errStore

	stdout, stderr, code := runCommand(t, &commands.DashboardCmd{}, svc, nil, false)

	expectCode(t, exitcode.BackendError, code)
	expectOutput(t, "", stdout)
	expectOutput(t, "error: Failed to load tasks. Please try again later.\n", stderr)
}

// Tests for tasks command
func TestTasksCommand_WithTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "Pending", "2025-03-01T00:00:00Z")
	svc.AddTask("Buy eggs", "Completed", "")

	cmd := &commands.TasksCmd{}
	cmd.SetPage(1)
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stderr)

	expected := "  ID  STATUS       DUE         TITLE\n" +
		"   1  Pending      2025-03-01  Buy milk\n" +
		"   2  Completed    -           Buy eggs\n"
	expectOutput(t, expected, stdout)
}

func TestTasksCommand_Empty(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.TasksCmd{}
	cmd.SetPage(1)
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stderr)
	expectOutput(t, "No tasks found. Run \"vatask add <title>\" to create one.\n", stdout)
}

func TestTasksCommand_EmptyQuiet(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.TasksCmd{}
	cmd.SetPage(1)
	stdout, _, code := runCommand(t, cmd, svc, nil, true)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stdout)
}

func TestTasksCommand_Paging(t *testing.T) {
	svc := testutil.NewFakeService()
	for i := 1; i <= 5; i++ {
		svc.AddTask("task", "Pending", "")
	}
	cfg := &config.Config{Dir: t.TempDir(), Settings: config.Settings{ItemsPerPage: 2}}

	cmd := &commands.TasksCmd{}
	cmd.SetPage(3)
	stdout, stderr, code := runWithConfig(t, cmd, cfg, svc, nil)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stderr)
	expected := "  ID  STATUS       DUE         TITLE\n" +
		"   5  Pending      -           task\n" +
		"page 3/3 (5 tasks)\n"
	expectOutput(t, expected, stdout)
}

func TestTasksCommand_PageOutOfRange(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("task", "Pending", "")

	cmd := &commands.TasksCmd{}
	cmd.SetPage(2)
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	expectCode(t, exitcode.UserError, code)
	expectOutput(t, "error: page out of range: 2 (of 1)\n", stderr)
}

func TestTasksCommand_InvalidPage(t *testing.T) {
	cmd := &commands.TasksCmd{}
	cmd.SetPage(0)
	_, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), nil, false)

	expectCode(t, exitcode.UserError, code)
	expectOutput(t, "error: invalid page number: 0\n", stderr)
}

func TestTasksCommand_LoadFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errStore

	cmd := &commands.TasksCmd{}
	cmd.SetPage(1)
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	expectCode(t, exitcode.BackendError, code)
	expectOutput(t, "", stdout)
	expectOutput(t, "error: Failed to load tasks. Please try again later.\n", stderr)
}

func TestTasksCommand_AutoRefresh(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("first", "Pending", "")
	cfg := &config.Config{Dir: t.TempDir(), Quiet: true, Settings: config.Settings{AutoRefresh: true}}

	var intervals []time.Duration
	tick := func(d time.Duration) <-chan time.Time {
		intervals = append(intervals, d)
		if len(intervals) == 1 {
			svc.AddTask("second", "Pending", "")
		}
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}

	cmd := &commands.TasksCmd{}
	cmd.SetPage(1)
	cmd.SetRefreshHooks(tick, 2)
	stdout, _, code := runWithConfig(t, cmd, cfg, svc, nil)

	expectCode(t, exitcode.Success, code)
	if svc.Calls != 3 {
		t.Errorf("expected 3 loads, got %d", svc.Calls)
	}
	if len(intervals) != 2 || intervals[0] != 30*time.Second {
		t.Errorf("expected two 30s waits, got %v", intervals)
	}
	if strings.Count(stdout, "first") != 3 || strings.Count(stdout, "second") != 2 {
		t.Errorf("unexpected refresh output:\n%s", stdout)
	}
}

func TestTasksCommand_AutoRefreshKeepsGoingAfterFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("first", "Pending", "")
	cfg := &config.Config{Dir: t.TempDir(), Quiet: true, Settings: config.Settings{AutoRefresh: true}}

	n := 0
	tick := func(d time.Duration) <-chan time.Time {
		n++
		if n == 1 {
			svc.ListTasksErr = errStore
		} else {
			svc.ListTasksErr = nil
		}
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}

	cmd := &commands.TasksCmd{}
	cmd.SetPage(1)
	cmd.SetRefreshHooks(tick, 2)
	_, stderr, code := runWithConfig(t, cmd, cfg, svc, nil)

	expectCode(t, exitcode.Success, code)
	if strings.Count(stderr, "Failed to load tasks.") != 1 {
		t.Errorf("expected one failure banner, got %q", stderr)
	}
}

// Tests for show command
func TestShowCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("Write report", "In Progress", "2025-06-30")

	stdout, stderr, code := runCommand(t, &commands.ShowCmd{}, svc, []string{"1"}, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stderr)
	if id != 1 || !strings.Contains(stdout, "Title:       Write report\n") {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestShowCommand_Missing(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.ShowCmd{}, svc, []string{"9"}, false)

	expectCode(t, exitcode.BackendError, code)
	expectOutput(t, "error: Failed to load tasks. Please try again later.\n", stderr)
}

func TestShowCommand_InvalidID(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ShowCmd{}, testutil.NewFakeService(), []string{"abc"}, false)

	expectCode(t, exitcode.UserError, code)
	expectOutput(t, "error: invalid task id: abc\n", stderr)
}

func TestShowCommand_NoID(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ShowCmd{}, testutil.NewFakeService(), nil, false)

	expectCode(t, exitcode.UserError, code)
	expectOutput(t, "error: task id required\n", stderr)
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy", "milk"}, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stderr)
	expectOutput(t, "ok 1\n", stdout)

	task, ok := svc.Task(1)
	if !ok {
		t.Fatal("task was not created")
	}
	if task.Title != "Buy milk" || task.Status != "Pending" {
		t.Errorf("unexpected task %+v", task)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy milk"}, true)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stdout)
	if svc.Len() != 1 {
		t.Errorf("expected 1 task, got %d", svc.Len())
	}
}

func TestAddCommand_NotificationsOff(t *testing.T) {
	svc := testutil.NewFakeService()
	off := false
	cfg := &config.Config{Dir: t.TempDir(), Settings: config.Settings{EnableNotifications: &off}}

	stdout, _, code := runWithConfig(t, &commands.AddCmd{}, cfg, svc, []string{"Buy milk"})

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stdout)
}

func TestAddCommand_WithStatusAndDue(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.AddCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--status", "In Progress", "--due", "2025-02-01", "Plan", "sprint"}); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := runCommand(t, cmd, svc, fs.Args(), false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stderr)
	task, _ := svc.Task(1)
	if task.Status != "In Progress" || task.DueDate != "2025-02-01" || task.Title != "Plan sprint" {
		t.Errorf("unexpected task %+v", task)
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, nil, false)

	expectCode(t, exitcode.UserError, code)
	expectOutput(t, "", stdout)
	expectOutput(t, "error: Task title is required.\n", stderr)
	if svc.Len() != 0 {
		t.Error("no task should be created")
	}
}

func TestAddCommand_WhitespaceTitle(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"   "}, false)

	expectCode(t, exitcode.UserError, code)
	expectOutput(t, "error: Task title is required.\n", stderr)
}

func TestAddCommand_InvalidStatusAndDue(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.AddCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--status", "Blocked", "--due", "tomorrow", "x"}); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := runCommand(t, cmd, svc, fs.Args(), false)

	expectCode(t, exitcode.UserError, code)
	if !strings.Contains(stderr, "error: status: must be one of: Pending, In Progress, Completed\n") {
		t.Errorf("missing status error in %q", stderr)
	}
	if !strings.Contains(stderr, "error: due: must be a date like 2025-01-31\n") {
		t.Errorf("missing due error in %q", stderr)
	}
	if svc.Len() != 0 {
		t.Error("no task should be created")
	}
}

func TestAddCommand_StoreFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateTaskErr = errStore

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy milk"}, false)

	expectCode(t, exitcode.BackendError, code)
	expectOutput(t, "", stdout)
	expectOutput(t, "error: Failed to create task. Please try again.\n", stderr)
}

// Tests for update command
func TestUpdateCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "Pending", "2025-01-01")
	cmd := &commands.UpdateCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--status", "In Progress", "--due", "", "1"}); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCommand(t, cmd, svc, fs.Args(), false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stderr)
	expectOutput(t, "ok\n", stdout)

	task, _ := svc.Task(1)
	want := service.TaskItem{ID: 1, Title: "Buy milk", Status: "In Progress"}
	if task != want {
		t.Errorf("expected %+v, got %+v", want, task)
	}
}

func TestUpdateCommand_NothingToUpdate(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "Pending", "")
	cmd := &commands.UpdateCmd{}
	newFlagSet(cmd)

	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	expectCode(t, exitcode.UserError, code)
	expectOutput(t, "error: nothing to update\n", stderr)
}

func TestUpdateCommand_EmptyTitle(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "Pending", "")
	cmd := &commands.UpdateCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--title", " ", "1"}); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := runCommand(t, cmd, svc, fs.Args(), false)

	expectCode(t, exitcode.UserError, code)
	expectOutput(t, "error: Task title is required.\n", stderr)
}

func TestUpdateCommand_Missing(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.UpdateCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--title", "x", "4"}); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := runCommand(t, cmd, svc, fs.Args(), false)

	expectCode(t, exitcode.BackendError, code)
	expectOutput(t, "error: Failed to update task. Please try again.\n", stderr)
}

// Tests for done command
func TestDoneCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "Pending", "")

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"1"}, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stderr)
	expectOutput(t, "ok\n", stdout)
	if task, _ := svc.Task(1); task.Status != "Completed" {
		t.Errorf("expected Completed, got %q", task.Status)
	}
}

func TestDoneCommand_StoreFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "Pending", "")
	svc.UpdateTaskErr = errStore

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"1"}, false)

	expectCode(t, exitcode.BackendError, code)
	expectOutput(t, "error: Failed to update task. Please try again.\n", stderr)
}

// Tests for rm command
func TestRmCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "Pending", "")
	svc.AddTask("Buy eggs", "Pending", "")

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1"}, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "", stderr)
	expectOutput(t, "ok\n", stdout)
	if _, ok := svc.Task(1); ok {
		t.Error("task 1 should be deleted")
	}
	if svc.Len() != 1 {
		t.Errorf("expected 1 task left, got %d", svc.Len())
	}
}

func TestRmCommand_Twice(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "Pending", "")

	_, _, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1"}, false)
	expectCode(t, exitcode.Success, code)

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1"}, false)
	expectCode(t, exitcode.BackendError, code)
	expectOutput(t, "error: Failed to delete task. Please try again.\n", stderr)
}

// Tests for ping command
func TestPingCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.PingCmd{}, svc, nil, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "connected: Team Site\n", stdout)
}

func TestPingCommand_Failure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.PingErr = errStore

	_, stderr, code := runCommand(t, &commands.PingCmd{}, svc, nil, false)

	expectCode(t, exitcode.BackendError, code)
	expectOutput(t, "error: Could not reach the site. Check your connection settings.\n", stderr)
}
