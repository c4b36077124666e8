// Package googletasks implements reminder.Persistence on one Google Tasks list.
package googletasks

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"reminder/internal/config"
	"reminder/internal/reminder"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks fetched per request.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements reminder.Persistence using the Google Tasks API.
// Google keeps only the date part of a due date.
type Client struct {
	svc    *tasks.Service
	listID string
}

// New creates a client for the list named by cfg.GoogleList, or the default
// list. Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	// Token source refreshes on its own; the HTTP client carries it.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	c := &Client{svc: svc, listID: DefaultListID}
	if cfg.GoogleList != "" {
		id, err := c.resolveList(ctx, cfg.GoogleList)
		if err != nil {
			return nil, err
		}
		c.listID = id
	}
	return c, nil
}

// NewWithHTTPClient creates a client for listID with a custom HTTP client
// (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listID: listID}, nil
}

// ListID returns the ID of the list the client works on.
func (c *Client) ListID() string {
	return c.listID
}

// resolveList finds a list by name (case-insensitive, trimmed).
func (c *Client) resolveList(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	nameLower := strings.ToLower(name)

	var matches []string
	err := c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if strings.ToLower(strings.TrimSpace(list.Title)) == nameLower {
				matches = append(matches, list.Id)
			}
		}
		return nil
	})
	if err != nil {
		return "", wrapError(reminder.ErrPersistenceUnavailable, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("list not found: %s", name)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous list name: %s", name)
	}
}

// FetchAll implements reminder.Persistence.
func (c *Client) FetchAll(ctx context.Context) ([]reminder.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []reminder.Record
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, task := range resp.Items {
				record, err := toRecord(task)
				if err != nil {
					return err
				}
				result = append(result, record)
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(reminder.ErrPersistenceRead, err)
	}
	return result, nil
}

// Insert implements reminder.Persistence.
func (c *Client) Insert(ctx context.Context, title string, dueDate time.Time, isCompleted bool) (reminder.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	task := &tasks.Task{
		Title:  title,
		Due:    dueDate.UTC().Format(time.RFC3339),
		Status: status(isCompleted),
	}
	created, err := c.svc.Tasks.Insert(c.listID, task).Context(ctx).Do()
	if err != nil {
		return reminder.Record{}, wrapError(reminder.ErrPersistenceWrite, err)
	}

	return reminder.Record{
		ID:          created.Id,
		Title:       title,
		DueDate:     dueDate,
		IsCompleted: isCompleted,
	}, nil
}

// UpdateCompletion implements reminder.Persistence.
func (c *Client) UpdateCompletion(ctx context.Context, id string, isCompleted bool) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	patch := &tasks.Task{Status: status(isCompleted)}
	if !isCompleted {
		// Reopening requires clearing the completion timestamp.
		patch.NullFields = []string{"Completed"}
	}
	_, err := c.svc.Tasks.Patch(c.listID, id, patch).Context(ctx).Do()
	if err != nil {
		return wrapError(reminder.ErrPersistenceWrite, err)
	}
	return nil
}

// Delete implements reminder.Persistence.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError(reminder.ErrPersistenceWrite, err)
	}
	return nil
}

func status(isCompleted bool) string {
	if isCompleted {
		return statusCompleted
	}
	return statusNeedsAction
}

func toRecord(task *tasks.Task) (reminder.Record, error) {
	record := reminder.Record{
		ID:          task.Id,
		Title:       task.Title,
		IsCompleted: task.Status == statusCompleted,
	}
	if task.Due != "" {
		due, err := time.Parse(time.RFC3339, task.Due)
		if err != nil {
			return reminder.Record{}, fmt.Errorf("task %s: invalid due date %q", task.Id, task.Due)
		}
		record.DueDate = due
	}
	return record, nil
}

// wrapError wraps API errors with user-friendly messages under kind.
func wrapError(kind, err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for timeout
	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("%w: request timed out", kind)
	}

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("%w: token expired or revoked (run: reminder login)", kind)
	}

	// Check for not found
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("%w: not found", kind)
	}

	return fmt.Errorf("%w: %v", kind, err)
}
