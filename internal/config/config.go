// Package config handles the XDG configuration directory, file paths and
// backend settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "reminder"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DataFile is the default task file of the file backend.
	DataFile = "tasks.json"

	// EnvFile holds optional settings, read before the process environment.
	EnvFile = ".env"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
	BackendGoogle = "google"
)

// Notifier names.
const (
	NotifyTerminal = "terminal"
	NotifyRedis    = "redis"
)

// Environment keys.
const (
	EnvBackend       = "REMINDER_BACKEND"
	EnvDataFile      = "REMINDER_DATA_FILE"
	EnvRedisURL      = "REMINDER_REDIS_URL"
	EnvRedisPrefix   = "REMINDER_REDIS_PREFIX"
	EnvMySQLDSN      = "REMINDER_MYSQL_DSN"
	EnvGoogleList    = "REMINDER_GOOGLE_LIST"
	EnvNotify        = "REMINDER_NOTIFY"
	EnvNotifyChannel = "REMINDER_NOTIFY_CHANNEL"
	EnvDebug         = "REMINDER_DEBUG"
	EnvTimezone      = "REMINDER_TIMEZONE"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Backend selects the persistence backend.
	Backend string

	// DataFile overrides the file backend's task file.
	DataFile string

	// RedisURL is the redis:// URL used by the redis backend and notifier.
	RedisURL string

	// RedisPrefix namespaces the redis backend's keys.
	RedisPrefix string

	// MySQLDSN is the data source name of the mysql backend.
	MySQLDSN string

	// GoogleList is the Google Tasks list name; empty means the default list.
	GoogleList string

	// Notify selects where alerts are delivered.
	Notify string

	// NotifyChannel is the redis channel alerts are published to.
	NotifyChannel string

	// Location is used to display and parse due dates.
	Location *time.Location

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/reminder or $HOME/.config/reminder.
// Settings come from the environment, falling back to <dir>/.env.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	fileEnv, err := godotenv.Read(filepath.Join(dir, EnvFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("invalid %s: %w", EnvFile, err)
	}
	get := func(key, def string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		if v := fileEnv[key]; v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Dir:           dir,
		Backend:       strings.ToLower(get(EnvBackend, BackendFile)),
		DataFile:      get(EnvDataFile, ""),
		RedisURL:      get(EnvRedisURL, "redis://localhost:6379/0"),
		RedisPrefix:   get(EnvRedisPrefix, AppName),
		MySQLDSN:      get(EnvMySQLDSN, ""),
		GoogleList:    get(EnvGoogleList, ""),
		Notify:        strings.ToLower(get(EnvNotify, NotifyTerminal)),
		NotifyChannel: get(EnvNotifyChannel, AppName+":alerts"),
		Location:      time.Local,
	}

	if v := get(EnvTimezone, ""); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %s", EnvTimezone, v)
		}
		cfg.Location = loc
	}

	if v := get(EnvDebug, ""); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %s", EnvDebug, v)
		}
		cfg.Debug = debug
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the backend and notifier names.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendRedis, BackendMySQL, BackendGoogle:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	switch c.Notify {
	case NotifyTerminal, NotifyRedis:
	default:
		return fmt.Errorf("unknown notifier: %s", c.Notify)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DataPath returns the path of the file backend's task file.
func (c *Config) DataPath() string {
	if c.DataFile != "" {
		return c.DataFile
	}
	return filepath.Join(c.Dir, DataFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// Loc returns the display location, defaulting to local time.
func (c *Config) Loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
