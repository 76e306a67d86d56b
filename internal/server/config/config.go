// Package config handles configuration for the diary server: defaults, an
// optional JSON file, then command-line flags, each layer overriding the one
// before.
package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/cryptox"
	"github.com/dmitrijs2005/diary/internal/logging"
)

// Config holds runtime settings for the diary server.
//
// Fields:
//   - HTTPAddr: bind address of the HTTP API.
//   - DatabasePath: SQLite file, created on first start.
//   - SessionTTL: lifetime of issued session tokens.
//   - HashAlgorithm: password hash for a new store; an existing store keeps
//     the algorithm it was created with.
//   - LogBackend: "slog" or "zap".
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	HTTPAddr        string
	DatabasePath    string
	SessionTTL      time.Duration
	HashAlgorithm   string
	LogBackend      string
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.DatabasePath = "diary.db"
	c.SessionTTL = common.DefaultSessionTTL
	c.HashAlgorithm = string(cryptox.Argon2id)
	c.LogBackend = logging.BackendSlog
	c.ShutdownTimeout = 10 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
