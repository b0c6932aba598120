package output_test

import (
	"bytes"
	"strings"
	"testing"

	"vatask/internal/output"
	"vatask/internal/service"
	"vatask/internal/testutil"
)

func TestFormatTaskTable(t *testing.T) {
	tasks := []service.TaskItem{
		{ID: 1, Title: "Buy milk", Status: "Pending", DueDate: "2025-03-01T00:00:00Z"},
		{ID: 12, Title: "Call\nBob", Status: "In Progress"},
		{ID: 3, Title: "  ", Status: "Completed", DueDate: "2025-01-05"},
		{ID: 4, Title: "Plan sprint"},
	}

	var buf bytes.Buffer
	output.FormatTaskHeader(&buf)
	for _, task := range tasks {
		output.FormatTask(&buf, task)
	}
	output.FormatPageFooter(&buf, 1, 2, 4)

	testutil.Golden(t, "task_table", buf.Bytes())
}

func TestFormatTaskDetail(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTaskDetail(&buf, service.TaskItem{ID: 7, Title: "Write report", Status: "In Progress", DueDate: "2025-06-30"})

	testutil.Golden(t, "task_detail", buf.Bytes())
}

func TestComputeStats(t *testing.T) {
	tasks := []service.TaskItem{
		{ID: 1, Status: "Pending"},
		{ID: 2, Status: "Completed"},
		{ID: 3, Status: "In Progress"},
		{ID: 4, Status: "Pending"},
		{ID: 5},
	}

	got := output.ComputeStats(tasks)
	want := output.Stats{Total: 5, Completed: 1, Pending: 2}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestRecent(t *testing.T) {
	var tasks []service.TaskItem
	for _, id := range []int{3, 9, 1, 7, 5, 8, 2} {
		tasks = append(tasks, service.TaskItem{ID: id})
	}

	got := output.Recent(tasks, output.RecentCount)
	var ids []int
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	want := []int{9, 8, 7, 5, 3}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}

	// The input order is untouched.
	if tasks[0].ID != 3 {
		t.Errorf("input slice was reordered")
	}
}

func TestRecent_EqualIDsKeepStoreOrder(t *testing.T) {
	tasks := []service.TaskItem{
		{ID: 2, Title: "first"},
		{ID: 4, Title: "newest"},
		{ID: 2, Title: "second"},
	}

	got := output.Recent(tasks, 2)

	if len(got) != 2 || got[0].Title != "newest" || got[1].Title != "first" {
		t.Errorf("unexpected order %+v", got)
	}
}

func TestRecent_FewerThanN(t *testing.T) {
	if got := output.Recent(nil, output.RecentCount); len(got) != 0 {
		t.Errorf("expected no tasks, got %+v", got)
	}
}

func TestFormatDashboard(t *testing.T) {
	tasks := []service.TaskItem{
		{ID: 1, Title: "Buy milk", Status: "Completed"},
		{ID: 2, Title: "Call Bob", Status: "Pending"},
	}

	var buf bytes.Buffer
	output.FormatDashboard(&buf, tasks)
	out := buf.String()

	for _, want := range []string{"Total Tasks", "Completed", "Pending", "Recent Tasks", "Call Bob"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Call Bob") > strings.Index(out, "Buy milk") {
		t.Errorf("expected newest task first:\n%s", out)
	}
}

func TestFormatDashboard_Empty(t *testing.T) {
	var buf bytes.Buffer
	output.FormatDashboard(&buf, nil)

	if !strings.Contains(buf.String(), "No tasks yet.") {
		t.Errorf("expected empty message, got:\n%s", buf.String())
	}
}
