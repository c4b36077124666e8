// Package backend opens the persistence backend selected by configuration.
package backend

import (
	"context"
	"errors"
	"fmt"

	"reminder/internal/backend/filestore"
	"reminder/internal/backend/googletasks"
	"reminder/internal/backend/mysqlstore"
	"reminder/internal/backend/redisstore"
	"reminder/internal/config"
	"reminder/internal/reminder"
)

// ErrAuth means the google backend has no usable credentials.
var ErrAuth = errors.New("auth error")

// Open returns the persistence for cfg.Backend. Backends holding connections
// implement io.Closer.
func Open(ctx context.Context, cfg *config.Config) (reminder.Persistence, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		s, err := filestore.New(cfg.DataPath())
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendRedis:
		s, err := redisstore.Open(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendMySQL:
		if cfg.MySQLDSN == "" {
			return nil, fmt.Errorf("%w: %s is not set", reminder.ErrPersistenceUnavailable, config.EnvMySQLDSN)
		}
		s, err := mysqlstore.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendGoogle:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("%w: oauth_client.json not found in %s", ErrAuth, cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("%w: not logged in (run: reminder login)", ErrAuth)
		}
		c, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}
