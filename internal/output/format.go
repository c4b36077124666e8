// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"reminder/internal/reminder"
)

const (
	// ListSeparator is the separator line for view headers.
	ListSeparator = "------------"

	// DueLayout is the layout due dates are printed with.
	DueLayout = "2006-01-02 15:04"
)

// FormatTask formats a row of the filtered view.
// Format: "{N:>4}  [{x| }] {TITLE}  (due {DATE})[ !]\n"; the trailing " !"
// marks overdue rows and the due part is left out for tasks without a date.
func FormatTask(w io.Writer, num int, task reminder.Task, now time.Time, loc *time.Location) {
	mark := " "
	if task.IsCompleted {
		mark = "x"
	}
	line := fmt.Sprintf("%4d  [%s] %s", num, mark, normalizeTitle(task.Title))
	if !task.DueDate.IsZero() {
		line += "  (due " + task.DueDate.In(loc).Format(DueLayout) + ")"
	}
	if task.IsOverdue(now) {
		line += " !"
	}
	fmt.Fprintln(w, line)
}

// FormatViewHeader formats the header naming the current filter.
func FormatViewHeader(w io.Writer, f reminder.Filter) {
	title := f.String()
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, ListSeparator)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
