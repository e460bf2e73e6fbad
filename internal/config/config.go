// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	SinkPostgres = "postgres"
	SinkQueue    = "queue"
)

// Postgres holds the connection settings for the result store.
type Postgres struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

// ConnString renders a postgres:// URL for pgxpool.
func (p Postgres) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   p.Host + ":" + p.Port,
		Path:   "/" + p.Database,
	}
	return u.String()
}

type Redis struct {
	Addr      string `toml:"addr"`
	DB        int    `toml:"db"`
	QueueName string `toml:"queue_name"`
}

type Historian struct {
	BatchSize int `toml:"batch_size"`
	FlushMs   int `toml:"flush_ms"`
}

// Config is the full service configuration.
type Config struct {
	Port     string `toml:"port"`
	LogLevel string `toml:"log_level"`
	Env      string `toml:"env"`

	Postgres  Postgres  `toml:"postgres"`
	Redis     Redis     `toml:"redis"`
	Historian Historian `toml:"historian"`

	// ResultSink selects where finished games go: straight to postgres, or onto the redis queue.
	ResultSink string `toml:"result_sink"`

	AllowedOrigins []string `toml:"allowed_origins"`

	SessionIdleTimeoutSec int `toml:"session_idle_timeout_sec"`
	// TokenExpire is a Go duration, or "never"/"0"/"" for tokens without expiry.
	TokenExpire string `toml:"token_expire"`

	// Seed makes every shuffle reproducible when set.
	Seed *int64 `toml:"seed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:     "3000",
		LogLevel: "info",
		Env:      "dev",
		Postgres: Postgres{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Database: "game",
		},
		Redis: Redis{
			Addr:      "localhost:6379",
			QueueName: "lucky21_results",
		},
		Historian: Historian{
			BatchSize: 20,
			FlushMs:   500,
		},
		ResultSink:            SinkPostgres,
		AllowedOrigins:        []string{"https://*", "http://*"},
		SessionIdleTimeoutSec: 1800,
	}
}

// Load builds the configuration from the defaults, then the TOML file named by
// LUCKY21_CONFIG (if any), then environment variables.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("LUCKY21_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Env = getEnv("LUCKY21_ENV", c.Env)

	c.Postgres.Host = getEnv("PG_HOST", c.Postgres.Host)
	c.Postgres.Port = getEnv("PG_PORT", c.Postgres.Port)
	c.Postgres.User = getEnv("POSTGRES_USER", c.Postgres.User)
	c.Postgres.Password = getEnv("POSTGRES_PASSWORD", c.Postgres.Password)
	c.Postgres.Database = getEnv("PG_DATABASE", c.Postgres.Database)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Redis.QueueName = getEnv("HISTORIAN_QUEUE_NAME", c.Redis.QueueName)
	c.Historian.BatchSize = getEnvInt("HISTORIAN_BATCH_SIZE", c.Historian.BatchSize)
	c.Historian.FlushMs = getEnvInt("HISTORIAN_FLUSH_MS", c.Historian.FlushMs)

	c.ResultSink = getEnv("RESULT_SINK", c.ResultSink)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = strings.Split(origins, ",")
	}
	c.SessionIdleTimeoutSec = getEnvInt("SESSION_IDLE_TIMEOUT_SEC", c.SessionIdleTimeoutSec)
	c.TokenExpire = getEnv("TOKEN_EXPIRE_TIME", c.TokenExpire)

	if s := os.Getenv("LUCKY21_SEED"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid LUCKY21_SEED %q: %w", s, err)
		}
		c.Seed = &seed
	}
	return nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if c.ResultSink != SinkPostgres && c.ResultSink != SinkQueue {
		return fmt.Errorf("invalid result sink %q (want %q or %q)", c.ResultSink, SinkPostgres, SinkQueue)
	}
	if c.Historian.BatchSize <= 0 {
		return fmt.Errorf("historian batch size must be positive")
	}
	if c.Historian.FlushMs <= 0 {
		return fmt.Errorf("historian flush interval must be positive")
	}
	if _, err := c.TokenTTL(); err != nil {
		return err
	}
	return nil
}

// SessionIdleTimeout is how long an untouched session is kept in memory.
func (c Config) SessionIdleTimeout() time.Duration {
	return time.Duration(c.SessionIdleTimeoutSec) * time.Second
}

// TokenTTL parses TokenExpire. Zero means session tokens never expire.
func (c Config) TokenTTL() (time.Duration, error) {
	switch c.TokenExpire {
	case "", "0", "never":
		return 0, nil
	}
	d, err := time.ParseDuration(c.TokenExpire)
	if err != nil {
		return 0, fmt.Errorf("failed to parse token expire time: %w", err)
	}
	return d, nil
}

func (c Config) FlushDelay() time.Duration {
	return time.Duration(c.Historian.FlushMs) * time.Millisecond
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an environment variable as integer, else returns the default.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
