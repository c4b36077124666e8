package reminder

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// AlertTitle is the title of every reminder notification.
const AlertTitle = "Smart Reminder Alert"

// Persistence is the storage backend the store reads and writes tasks through.
// Backends wrap failures with ErrPersistenceUnavailable, ErrPersistenceRead
// or ErrPersistenceWrite.
type Persistence interface {
	// FetchAll returns every stored task in storage order.
	FetchAll(ctx context.Context) ([]Record, error)

	// Insert stores a new task and returns it with its generated ID.
	Insert(ctx context.Context, title string, dueDate time.Time, isCompleted bool) (Record, error)

	// UpdateCompletion sets the completion flag of the task with the given ID.
	UpdateCompletion(ctx context.Context, id string, isCompleted bool) error

	// Delete removes the task with the given ID.
	Delete(ctx context.Context, id string) error
}

// Notifier fires a one-shot alert after a delay. Failures stay inside the
// notifier; nothing is reported back.
type Notifier interface {
	ScheduleOneShot(after time.Duration, title, body string)
}

// Store is the single holder of the task list and the current filter.
// It is not safe for concurrent use; callers drive it from one goroutine.
type Store struct {
	persistence Persistence
	notifier    Notifier
	logger      log.FieldLogger
	now         func() time.Time

	tasks    []Task
	filtered []Task
	filter   Filter
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger persistence failures are reported to.
func WithLogger(l log.FieldLogger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock sets the time source used for overdue checks and alert delays.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store. Call Initialize to load persisted tasks.
// A nil notifier disables alerts.
func NewStore(p Persistence, n Notifier, opts ...Option) *Store {
	s := &Store{
		persistence: p,
		notifier:    n,
		logger:      log.StandardLogger(),
		now:         time.Now,
		filter:      Pending,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads all persisted tasks and applies the Pending filter.
// A load failure is logged and leaves the store empty but usable; the error is
// still returned.
func (s *Store) Initialize(ctx context.Context) error {
	s.tasks = nil
	s.filter = Pending

	records, err := s.persistence.FetchAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("could not fetch tasks")
		s.ApplyFilter(s.filter)
		return err
	}

	s.tasks = make([]Task, 0, len(records))
	for _, r := range records {
		s.tasks = append(s.tasks, r.Task())
	}
	s.ApplyFilter(s.filter)
	return nil
}

// Replace appends tasks to the full list, clearing it first if reset is set,
// and reapplies the current filter.
func (s *Store) Replace(tasks []Task, reset bool) {
	if reset {
		s.tasks = nil
	}
	s.tasks = append(s.tasks, tasks...)
	s.ApplyFilter(s.filter)
}

// Count returns the number of rows in the filtered view.
func (s *Store) Count() int {
	return len(s.filtered)
}

// ItemAt returns the filtered row at index.
func (s *Store) ItemAt(index int) (Task, bool) {
	if index < 0 || index >= len(s.filtered) {
		return Task{}, false
	}
	return s.filtered[index], true
}

// Filter returns the current filter.
func (s *Store) Filter() Filter {
	return s.filter
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Tasks returns a copy of the full task list.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Visible returns a copy of the filtered view.
func (s *Store) Visible() []Task {
	out := make([]Task, len(s.filtered))
	copy(out, s.filtered)
	return out
}

// ApplyFilter sets the current filter and rebuilds the filtered view from the
// full list, keeping its order.
func (s *Store) ApplyFilter(f Filter) {
	s.filter = f
	now := s.now()
	filtered := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Match(t, now) {
			filtered = append(filtered, t)
		}
	}
	s.filtered = filtered
}

// Delete removes the filtered row at index from the backend and from both
// lists. The in-memory removal happens even when the backend delete fails.
func (s *Store) Delete(ctx context.Context, index int) error {
	task, ok := s.ItemAt(index)
	if !ok {
		return ErrIndexOutOfRange
	}

	err := s.persistence.Delete(ctx, task.ID)
	if err != nil {
		s.logger.WithError(err).WithField("task", task.ID).Error("could not delete task")
	}

	if i := s.indexOf(task.ID); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
	s.ApplyFilter(s.filter)
	return err
}

// SetCompletion changes the completion flag of the filtered row at index,
// persists it and reapplies the filter, so the row may leave the view.
// The in-memory change happens even when the backend update fails.
func (s *Store) SetCompletion(ctx context.Context, index int, isCompleted bool) error {
	task, ok := s.ItemAt(index)
	if !ok {
		return ErrIndexOutOfRange
	}

	err := s.persistence.UpdateCompletion(ctx, task.ID, isCompleted)
	if err != nil {
		s.logger.WithError(err).WithField("task", task.ID).Error("could not update task")
	}

	if i := s.indexOf(task.ID); i >= 0 {
		s.tasks[i].IsCompleted = isCompleted
	}
	s.ApplyFilter(s.filter)
	return err
}

// Create saves a new task, adds it to the full list, schedules its alert and
// reapplies the filter. If the save fails nothing else happens.
func (s *Store) Create(ctx context.Context, title string, dueDate time.Time, isCompleted bool) (Task, error) {
	record, err := s.persistence.Insert(ctx, title, dueDate, isCompleted)
	if err != nil {
		s.logger.WithError(err).WithField("title", title).Error("could not save task")
		return Task{}, err
	}

	task := record.Task()
	s.scheduleAlert(task)
	s.tasks = append(s.tasks, task)
	s.ApplyFilter(s.filter)
	return task, nil
}

// ArmAlerts schedules an alert for every pending task that is not yet due and
// returns how many were scheduled.
func (s *Store) ArmAlerts() int {
	n := 0
	for _, t := range s.tasks {
		if t.IsCompleted {
			continue
		}
		if s.scheduleAlert(t) {
			n++
		}
	}
	return n
}

// scheduleAlert asks the notifier for an alert at the task's due date.
// Tasks already due get none.
func (s *Store) scheduleAlert(t Task) bool {
	if s.notifier == nil {
		return false
	}
	delay := t.DueDate.Sub(s.now())
	if delay <= 0 {
		return false
	}
	s.notifier.ScheduleOneShot(delay, AlertTitle, t.Title)
	s.logger.WithFields(log.Fields{"task": t.ID, "delay": delay}).Debug("alert scheduled")
	return true
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
