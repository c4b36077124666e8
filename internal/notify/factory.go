package notify

import (
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"reminder/internal/config"
)

// FromConfig creates the scheduler selected by cfg.Notify. Terminal alerts are
// printed on out; redis alerts are published on cfg.NotifyChannel.
func FromConfig(cfg *config.Config, out io.Writer, logger log.FieldLogger) (*Scheduler, error) {
	switch cfg.Notify {
	case config.NotifyTerminal, "":
		return NewScheduler(NewWriterDeliverer(out), logger), nil
	case config.NotifyRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return NewScheduler(NewRedisDeliverer(redis.NewClient(opts), cfg.NotifyChannel), logger), nil
	default:
		return nil, fmt.Errorf("unknown notifier: %s", cfg.Notify)
	}
}
