// Package filestore implements reminder.Persistence on a JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"reminder/internal/reminder"
)

// document is the on-disk layout of the task file.
type document struct {
	Tasks []reminder.Record `json:"tasks"`
}

// Store keeps tasks in a single JSON file. Every call reads the file and
// every mutation rewrites it through a temp file and rename.
type Store struct {
	path  string
	newID func() string
}

// New creates a file store at path, creating its directory with mode 0700.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: %v", reminder.ErrPersistenceUnavailable, err)
	}
	return &Store{path: path, newID: uuid.NewString}, nil
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// FetchAll implements reminder.Persistence.
func (s *Store) FetchAll(ctx context.Context) ([]reminder.Record, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Tasks, nil
}

// Insert implements reminder.Persistence.
func (s *Store) Insert(ctx context.Context, title string, dueDate time.Time, isCompleted bool) (reminder.Record, error) {
	doc, err := s.load()
	if err != nil {
		return reminder.Record{}, err
	}

	record := reminder.Record{
		ID:          s.newID(),
		Title:       title,
		DueDate:     dueDate,
		IsCompleted: isCompleted,
	}
	doc.Tasks = append(doc.Tasks, record)
	if err := s.save(doc); err != nil {
		return reminder.Record{}, err
	}
	return record, nil
}

// UpdateCompletion implements reminder.Persistence.
func (s *Store) UpdateCompletion(ctx context.Context, id string, isCompleted bool) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	i := indexOf(doc.Tasks, id)
	if i < 0 {
		return fmt.Errorf("%w: task not found: %s", reminder.ErrPersistenceWrite, id)
	}
	doc.Tasks[i].IsCompleted = isCompleted
	return s.save(doc)
}

// Delete implements reminder.Persistence.
func (s *Store) Delete(ctx context.Context, id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	i := indexOf(doc.Tasks, id)
	if i < 0 {
		return fmt.Errorf("%w: task not found: %s", reminder.ErrPersistenceWrite, id)
	}
	doc.Tasks = append(doc.Tasks[:i], doc.Tasks[i+1:]...)
	return s.save(doc)
}

// load reads the task file. A missing file is an empty document.
func (s *Store) load() (document, error) {
	var doc document
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("%w: %v", reminder.ErrPersistenceRead, err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("%w: invalid %s: %v", reminder.ErrPersistenceRead, filepath.Base(s.path), err)
	}
	return doc, nil
}

// save writes the document atomically with mode 0600.
func (s *Store) save(doc document) error {
	if doc.Tasks == nil {
		doc.Tasks = []reminder.Record{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	return nil
}

func indexOf(records []reminder.Record, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
