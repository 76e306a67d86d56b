package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/diary/internal/flagx"
	"github.com/dmitrijs2005/diary/internal/timex"
)

// JSONConfig mirrors Config for unmarshalling. Durations accept both "24h"
// style strings and integer nanoseconds.
type JSONConfig struct {
	HTTPAddr        string         `json:"http_addr"`
	DatabasePath    string         `json:"database_path"`
	SessionTTL      timex.Duration `json:"session_ttl"`
	HashAlgorithm   string         `json:"hash_algorithm"`
	LogBackend      string         `json:"log_backend"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
}

// parseJSON overlays the file named by -c/-config (or $DIARY_CONFIG) onto
// config. Fields missing from the file keep their current value.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFilePathFrom(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	c := &JSONConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabasePath, c.DatabasePath)
	setString(&config.HashAlgorithm, c.HashAlgorithm)
	setString(&config.LogBackend, c.LogBackend)
	if c.SessionTTL.Duration > 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
