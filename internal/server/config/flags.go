package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/diary/internal/flagx"
)

// parseFlags overrides config from command-line flags.
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-d string     SQLite database path
//	-t duration   session token lifetime (e.g. "24h")
//	-k string     password hash algorithm for a new store (argon2id|blake2b)
//	-l string     log backend (slog|zap)
//	-w duration   graceful shutdown timeout
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-k", "-l", "-w"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabasePath, "d", config.DatabasePath, "database file")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session token lifetime")
	fs.StringVar(&config.HashAlgorithm, "k", config.HashAlgorithm, "password hash algorithm")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend")
	fs.DurationVar(&config.ShutdownTimeout, "w", config.ShutdownTimeout, "shutdown timeout")

	return fs.Parse(args)
}
