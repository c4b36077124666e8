// Package reminder holds the task store: the in-memory task list, the filtered
// view derived from it, and the calls it makes to persistence and notifications.
package reminder

import (
	"fmt"
	"strings"
	"time"
)

// Task is a titled, due-dated, completable reminder item.
type Task struct {
	ID          string
	Title       string
	DueDate     time.Time
	IsCompleted bool
}

// IsOverdue reports whether the task is still pending and due strictly before
// now. A task without a due date is never overdue.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted && !t.DueDate.IsZero() && t.DueDate.Before(now)
}

// Record is a task as stored by a Persistence backend.
type Record struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	DueDate     time.Time `json:"dueDate"`
	IsCompleted bool      `json:"isCompleted"`
}

// Task converts a stored record to a task value.
func (r Record) Task() Task {
	return Task{ID: r.ID, Title: r.Title, DueDate: r.DueDate, IsCompleted: r.IsCompleted}
}

// Filter selects which tasks are visible.
type Filter int

const (
	// Pending shows tasks not yet completed. It is the default filter.
	Pending Filter = iota
	// Completed shows completed tasks.
	Completed
	// Overdue shows pending tasks whose due date has passed.
	Overdue
)

// String returns the filter name as accepted by ParseFilter.
func (f Filter) String() string {
	switch f {
	case Pending:
		return "pending"
	case Completed:
		return "completed"
	case Overdue:
		return "overdue"
	default:
		return fmt.Sprintf("filter(%d)", int(f))
	}
}

// Match reports whether t belongs to the view selected by f at time now.
func (f Filter) Match(t Task, now time.Time) bool {
	switch f {
	case Completed:
		return t.IsCompleted
	case Pending:
		return !t.IsCompleted
	case Overdue:
		return t.IsOverdue(now)
	default:
		return false
	}
}

// ParseFilter parses a filter name (case-insensitive, trimmed).
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "open":
		return Pending, nil
	case "completed", "done":
		return Completed, nil
	case "overdue":
		return Overdue, nil
	default:
		return Pending, fmt.Errorf("unknown filter: %s", s)
	}
}
