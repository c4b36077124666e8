// Package mysqlstore implements reminder.Persistence on MySQL.
package mysqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"reminder/internal/reminder"
)

const createTasks = `CREATE TABLE IF NOT EXISTS reminder_tasks (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    title VARCHAR(500) NOT NULL,
    due_date DATETIME(6) NOT NULL,
    is_completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// Store keeps tasks in the reminder_tasks table. Ids are the table's
// auto-increment keys rendered as strings.
type Store struct {
	db *sql.DB
}

// Open connects to dsn, pings the server and creates the table if needed.
// Due dates are stored in UTC.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid dsn: %v", reminder.ErrPersistenceUnavailable, err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reminder.ErrPersistenceUnavailable, err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", reminder.ErrPersistenceUnavailable, err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTasks); err != nil {
		return fmt.Errorf("%w: create table: %v", reminder.ErrPersistenceUnavailable, err)
	}
	return nil
}

// FetchAll implements reminder.Persistence.
func (s *Store) FetchAll(ctx context.Context) ([]reminder.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, due_date, is_completed FROM reminder_tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reminder.ErrPersistenceRead, err)
	}
	defer rows.Close()

	var records []reminder.Record
	for rows.Next() {
		var (
			id int64
			r  reminder.Record
		)
		if err := rows.Scan(&id, &r.Title, &r.DueDate, &r.IsCompleted); err != nil {
			return nil, fmt.Errorf("%w: %v", reminder.ErrPersistenceRead, err)
		}
		r.ID = strconv.FormatInt(id, 10)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", reminder.ErrPersistenceRead, err)
	}
	return records, nil
}

// Insert implements reminder.Persistence.
func (s *Store) Insert(ctx context.Context, title string, dueDate time.Time, isCompleted bool) (reminder.Record, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reminder_tasks (title, due_date, is_completed) VALUES (?, ?, ?)`,
		title, dueDate.UTC(), isCompleted)
	if err != nil {
		return reminder.Record{}, fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return reminder.Record{}, fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	return reminder.Record{
		ID:          strconv.FormatInt(id, 10),
		Title:       title,
		DueDate:     dueDate,
		IsCompleted: isCompleted,
	}, nil
}

// UpdateCompletion implements reminder.Persistence.
func (s *Store) UpdateCompletion(ctx context.Context, id string, isCompleted bool) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE reminder_tasks SET is_completed = ? WHERE id = ?`, isCompleted, key)
	if err != nil {
		return fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	return checkFound(res, id)
}

// Delete implements reminder.Persistence.
func (s *Store) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM reminder_tasks WHERE id = ?`, key)
	if err != nil {
		return fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	return checkFound(res, id)
}

func parseID(id string) (int64, error) {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid task id: %s", reminder.ErrPersistenceWrite, id)
	}
	return key, nil
}

// checkFound reports a missing row. Open sets ClientFoundRows so an update
// to the current value still counts as found.
func checkFound(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", reminder.ErrPersistenceWrite, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: task not found: %s", reminder.ErrPersistenceWrite, id)
	}
	return nil
}
