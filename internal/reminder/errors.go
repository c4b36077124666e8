package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrPersistenceUnavailable means the persistence backend could not be obtained.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrPersistenceRead means loading tasks from the backend failed.
	ErrPersistenceRead = errors.New("persistence read failed")

	// ErrPersistenceWrite means a save, update or delete failed in the backend.
	ErrPersistenceWrite = errors.New("persistence write failed")

	// ErrIndexOutOfRange means a row index does not address the filtered view.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Unavailable returns a Persistence whose every call fails with
// ErrPersistenceUnavailable wrapping cause. The dispatcher uses it when a
// backend cannot be opened so the store still starts, empty.
func Unavailable(cause error) Persistence {
	return unavailable{cause: cause}
}

type unavailable struct {
	cause error
}

func (u unavailable) err() error {
	if u.cause == nil {
		return ErrPersistenceUnavailable
	}
	if errors.Is(u.cause, ErrPersistenceUnavailable) {
		return u.cause
	}
	return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, u.cause)
}

func (u unavailable) FetchAll(ctx context.Context) ([]Record, error) { return nil, u.err() }

func (u unavailable) Insert(ctx context.Context, title string, dueDate time.Time, isCompleted bool) (Record, error) {
	return Record{}, u.err()
}

func (u unavailable) UpdateCompletion(ctx context.Context, id string, isCompleted bool) error {
	return u.err()
}

func (u unavailable) Delete(ctx context.Context, id string) error { return u.err() }
