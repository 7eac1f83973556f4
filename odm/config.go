package odm

import (
	"os"
	"strings"
	"time"

	"mongoquery/query"
)

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	// Database is the database selected from a client passed with WithClient.
	Database string
	// Prefix is the operator prefix merged into find criteria, "$" by default.
	Prefix  string
	Log     LogConfig
	Timeout time.Duration
	// RecentLimit bounds Recent when it is called with a non-positive limit.
	RecentLimit int
}

func newConfig() *Config {
	c := &Config{
		Database:    os.Getenv("ODM_DATABASE"),
		Prefix:      query.DefaultPrefix,
		Timeout:     10 * time.Second,
		RecentLimit: 50,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
	if v := os.Getenv("ODM_COMMAND_PREFIX"); v != "" {
		c.Prefix = v
	}
	if v := os.Getenv("ODM_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("ODM_LOG_FORMAT"); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	if v := os.Getenv("ODM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	return c
}
