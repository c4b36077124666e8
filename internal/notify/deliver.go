package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/redis/go-redis/v9"
)

// WriterDeliverer prints alerts as lines on a writer, usually the terminal.
type WriterDeliverer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterDeliverer creates a deliverer printing to w.
func NewWriterDeliverer(w io.Writer) *WriterDeliverer {
	return &WriterDeliverer{w: w}
}

// Deliver implements Deliverer.
func (d *WriterDeliverer) Deliver(ctx context.Context, a Alert) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := fmt.Fprintf(d.w, "%s: %s\n", a.Title, a.Body)
	return err
}

// RedisDeliverer publishes alerts as JSON on a Redis channel so other
// processes (a phone bridge, a desktop notifier) can show them.
type RedisDeliverer struct {
	client  *redis.Client
	channel string
}

// NewRedisDeliverer creates a deliverer publishing to channel.
func NewRedisDeliverer(client *redis.Client, channel string) *RedisDeliverer {
	if client == nil {
		panic("notify.NewRedisDeliverer: client is nil")
	}
	return &RedisDeliverer{client: client, channel: channel}
}

// Close closes the underlying client.
func (d *RedisDeliverer) Close() error {
	return d.client.Close()
}

// Deliver implements Deliverer.
func (d *RedisDeliverer) Deliver(ctx context.Context, a Alert) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return d.client.Publish(ctx, d.channel, payload).Err()
}
