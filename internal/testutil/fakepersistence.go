// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reminder/internal/reminder"
)

// FakePersistence is an in-memory implementation of reminder.Persistence for testing.
type FakePersistence struct {
	mu      sync.RWMutex
	records []reminder.Record
	nextID  int

	// Error injection for testing
	FetchAllErr         error
	InsertErr           error
	UpdateCompletionErr error
	DeleteErr           error

	// Call log
	Deleted []string
	Updated []string
}

// NewFakePersistence creates an empty FakePersistence.
func NewFakePersistence() *FakePersistence {
	return &FakePersistence{nextID: 1}
}

// AddTask adds a stored task and returns its ID.
func (f *FakePersistence) AddTask(title string, due time.Time, completed bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.add(title, due, completed).ID
}

func (f *FakePersistence) add(title string, due time.Time, completed bool) reminder.Record {
	r := reminder.Record{
		ID:          fmt.Sprintf("task-%d", f.nextID),
		Title:       title,
		DueDate:     due,
		IsCompleted: completed,
	}
	f.nextID++
	f.records = append(f.records, r)
	return r
}

// Records returns a copy of the stored records.
func (f *FakePersistence) Records() []reminder.Record {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]reminder.Record, len(f.records))
	copy(result, f.records)
	return result
}

// FetchAll implements reminder.Persistence.
func (f *FakePersistence) FetchAll(ctx context.Context) ([]reminder.Record, error) {
	if f.FetchAllErr != nil {
		return nil, f.FetchAllErr
	}
	return f.Records(), nil
}

// Insert implements reminder.Persistence.
func (f *FakePersistence) Insert(ctx context.Context, title string, dueDate time.Time, isCompleted bool) (reminder.Record, error) {
	if f.InsertErr != nil {
		return reminder.Record{}, f.InsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.add(title, dueDate, isCompleted), nil
}

// UpdateCompletion implements reminder.Persistence.
func (f *FakePersistence) UpdateCompletion(ctx context.Context, id string, isCompleted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Updated = append(f.Updated, id)
	if f.UpdateCompletionErr != nil {
		return f.UpdateCompletionErr
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records[i].IsCompleted = isCompleted
			return nil
		}
	}
	return fmt.Errorf("%w: not found: %s", reminder.ErrPersistenceWrite, id)
}

// Delete implements reminder.Persistence.
func (f *FakePersistence) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, id)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: not found: %s", reminder.ErrPersistenceWrite, id)
}

// Alert is one call recorded by FakeNotifier.
type Alert struct {
	After time.Duration
	Title string
	Body  string
}

// FakeNotifier records scheduled alerts instead of firing them.
type FakeNotifier struct {
	mu     sync.Mutex
	alerts []Alert
}

// ScheduleOneShot implements reminder.Notifier.
func (n *FakeNotifier) ScheduleOneShot(after time.Duration, title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, Alert{After: after, Title: title, Body: body})
}

// Alerts returns the alerts scheduled so far.
func (n *FakeNotifier) Alerts() []Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	result := make([]Alert, len(n.alerts))
	copy(result, n.alerts)
	return result
}

// Clock returns a fixed time source.
func Clock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}
