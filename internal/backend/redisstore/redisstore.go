// Package redisstore implements reminder.Persistence on Redis.
//
// Each task is a hash at <prefix>:task:<id>; the list <prefix>:tasks keeps
// task ids in insertion order.
package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"reminder/internal/reminder"
)

const (
	fieldTitle     = "title"
	fieldDue       = "due"
	fieldCompleted = "completed"
)

// Store keeps tasks in Redis.
type Store struct {
	client *redis.Client
	prefix string
	newID  func() string
}

// Open connects to the Redis server at url and checks it answers.
func Open(ctx context.Context, url, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redis url: %v", reminder.ErrPersistenceUnavailable, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", reminder.ErrPersistenceUnavailable, err)
	}
	return New(client, prefix), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Store {
	if client == nil {
		panic("redisstore.New: client is nil")
	}
	return &Store{client: client, prefix: prefix, newID: uuid.NewString}
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// FetchAll implements reminder.Persistence.
func (s *Store) FetchAll(ctx context.Context) ([]reminder.Record, error) {
	ids, err := s.client.LRange(ctx, s.listKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reminder.ErrPersistenceRead, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.taskKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reminder.ErrPersistenceRead, err)
	}

	records := make([]reminder.Record, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Listed id whose hash is gone.
			continue
		}
		record, err := decode(ids[i], fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", reminder.ErrPersistenceRead, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Insert implements reminder.Persistence.
func (s *Store) Insert(ctx context.Context, title string, dueDate time.Time, isCompleted bool) (reminder.Record, error) {
	record := reminder.Record{
		ID:          s.newID(),
		Title:       title,
		DueDate:     dueDate,
		IsCompleted: isCompleted,
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.taskKey(record.ID),
			fieldTitle, record.Title,
			fieldDue, record.DueDate.UTC().Format(time.RFC3339Nano),
			fieldCompleted, strconv.FormatBool(record.IsCompleted),
		)
		pipe.RPush(ctx, s.listKey(), record.ID)
		return nil
	})
	if err != nil {
		return reminder.Record{}, fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	return record, nil
}

// UpdateCompletion implements reminder.Persistence.
func (s *Store) UpdateCompletion(ctx context.Context, id string, isCompleted bool) error {
	n, err := s.client.Exists(ctx, s.taskKey(id)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: task not found: %s", reminder.ErrPersistenceWrite, id)
	}
	if err := s.client.HSet(ctx, s.taskKey(id), fieldCompleted, strconv.FormatBool(isCompleted)).Err(); err != nil {
		return fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	return nil
}

// Delete implements reminder.Persistence.
func (s *Store) Delete(ctx context.Context, id string) error {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.LRem(ctx, s.listKey(), 0, id)
		pipe.Del(ctx, s.taskKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	if removed.Val() == 0 {
		return fmt.Errorf("%w: task not found: %s", reminder.ErrPersistenceWrite, id)
	}
	return nil
}

func (s *Store) listKey() string {
	return s.prefix + ":tasks"
}

func (s *Store) taskKey(id string) string {
	return s.prefix + ":task:" + id
}

func decode(id string, fields map[string]string) (reminder.Record, error) {
	due, err := time.Parse(time.RFC3339Nano, fields[fieldDue])
	if err != nil {
		return reminder.Record{}, fmt.Errorf("task %s: invalid due date: %v", id, err)
	}
	completed, err := strconv.ParseBool(fields[fieldCompleted])
	if err != nil {
		return reminder.Record{}, fmt.Errorf("task %s: invalid completed flag: %v", id, err)
	}
	return reminder.Record{
		ID:          id,
		Title:       fields[fieldTitle],
		DueDate:     due,
		IsCompleted: completed,
	}, nil
}
