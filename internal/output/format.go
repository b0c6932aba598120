// Package output provides formatters for CLI output.
package output

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vatask/internal/schema"
	"vatask/internal/service"
)

// RecentCount is the number of tasks shown on the dashboard.
const RecentCount = 5

// FormatTaskHeader writes the column header of the task table.
func FormatTaskHeader(w io.Writer) {
	fmt.Fprintf(w, "%4s  %-11s  %-10s  %s\n", "ID", "STATUS", "DUE", "TITLE")
}

// FormatTask writes one task row.
// Format: "{ID:>4}  {STATUS:<11}  {DUE:<10}  {TITLE}\n"
func FormatTask(w io.Writer, task service.TaskItem) {
	fmt.Fprintf(w, "%4d  %-11s  %-10s  %s\n",
		task.ID, orDash(task.Status), formatDue(task.DueDate), normalizeTitle(task.Title))
}

// FormatTaskDetail writes every field of a task, one per line.
func FormatTaskDetail(w io.Writer, task service.TaskItem) {
	fmt.Fprintf(w, "ID:          %d\n", task.ID)
	fmt.Fprintf(w, "Title:       %s\n", normalizeTitle(task.Title))
	fmt.Fprintf(w, "Status:      %s\n", orDash(task.Status))
	fmt.Fprintf(w, "Due:         %s\n", formatDue(task.DueDate))
	fmt.Fprintf(w, "Assigned to: %s\n", orDash(task.AssignedTo))
}

// FormatPageFooter writes the paging line below a task table.
func FormatPageFooter(w io.Writer, page, pages, total int) {
	fmt.Fprintf(w, "page %d/%d (%d tasks)\n", page, pages, total)
}

// Stats are the dashboard totals.
type Stats struct {
	Total     int
	Completed int
	Pending   int
}

// ComputeStats counts tasks by status. Pending counts only the Pending status;
// other open states are in Total only.
func ComputeStats(tasks []service.TaskItem) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case schema.StatusCompleted:
			s.Completed++
		case schema.StatusPending:
			s.Pending++
		}
	}
	return s
}

// Recent returns up to n tasks with the highest ids, newest first.
// Ids are assigned in creation order, so the highest ids are the newest.
func Recent(tasks []service.TaskItem, n int) []service.TaskItem {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b service.TaskItem) int {
		return cmp.Compare(b.ID, a.ID)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Width(16).
			Align(lipgloss.Center)

	cardLabelStyle = lipgloss.NewStyle().Faint(true)
	cardValueStyle = lipgloss.NewStyle().Bold(true)
	headingStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

func card(label string, value int) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		cardLabelStyle.Render(label),
		cardValueStyle.Render(strconv.Itoa(value)),
	))
}

// FormatDashboard writes the metric cards and the most recent tasks.
func FormatDashboard(w io.Writer, tasks []service.TaskItem) {
	s := ComputeStats(tasks)
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Tasks", s.Total),
		card("Completed", s.Completed),
		card("Pending", s.Pending),
	))
	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Recent Tasks"))

	recent := Recent(tasks, RecentCount)
	if len(recent) == 0 {
		fmt.Fprintln(w, "No tasks yet.")
		return
	}
	FormatTaskHeader(w)
	for _, t := range recent {
		FormatTask(w, t)
	}
}

// formatDue keeps the date part of an ISO timestamp.
func formatDue(due string) string {
	due = strings.TrimSpace(due)
	if due == "" {
		return "-"
	}
	if len(due) > 10 {
		return due[:10]
	}
	return due
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
