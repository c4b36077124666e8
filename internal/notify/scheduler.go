// Package notify delivers one-shot reminder alerts after a delay.
package notify

import (
	"context"
	"io"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// DeliverTimeout bounds a single delivery.
const DeliverTimeout = 5 * time.Second

// Alert is a notification ready to be shown.
type Alert struct {
	Title string    `json:"title"`
	Body  string    `json:"body"`
	At    time.Time `json:"at"`
}

// Deliverer shows or forwards an alert.
type Deliverer interface {
	Deliver(ctx context.Context, a Alert) error
}

// Scheduler fires alerts on timers. It implements reminder.Notifier and is
// safe for concurrent use. Alerts only fire while the process runs.
type Scheduler struct {
	deliverer Deliverer
	logger    log.FieldLogger

	mu      sync.Mutex
	timers  map[int]*time.Timer
	next    int
	stopped bool
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler delivering through d.
func NewScheduler(d Deliverer, logger log.FieldLogger) *Scheduler {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Scheduler{
		deliverer: d,
		logger:    logger,
		timers:    make(map[int]*time.Timer),
	}
}

// ScheduleOneShot fires a single alert after the given delay. Delivery errors
// are logged, never returned.
func (s *Scheduler) ScheduleOneShot(after time.Duration, title, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		s.logger.WithField("task", body).Warn("scheduler stopped, alert dropped")
		return
	}

	id := s.next
	s.next++
	s.wg.Add(1)
	s.timers[id] = time.AfterFunc(after, func() {
		defer s.wg.Done()
		if !s.claim(id) {
			return
		}
		s.fire(Alert{Title: title, Body: body, At: time.Now()})
	})
}

// claim removes a fired timer from the table. It returns false if Stop got
// there first.
func (s *Scheduler) claim(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timers[id]; !ok {
		return false
	}
	delete(s.timers, id)
	return true
}

func (s *Scheduler) fire(a Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), DeliverTimeout)
	defer cancel()
	if err := s.deliverer.Deliver(ctx, a); err != nil {
		s.logger.WithError(err).WithField("task", a.Body).Error("could not deliver alert")
		return
	}
	s.logger.WithField("task", a.Body).Debug("alert delivered")
}

// Pending returns the number of alerts not yet fired.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels pending alerts, waits for deliveries in flight and closes the
// deliverer if it holds a connection. Stop is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for id, timer := range s.timers {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()
	s.wg.Wait()

	if c, ok := s.deliverer.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.logger.WithError(err).Warn("could not close deliverer")
		}
	}
}
