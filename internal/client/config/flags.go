package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/visitordesk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   remote backend: redis | postgres
//	-r string   redis URL of the shared store
//	-p string   postgres DSN of the shared store
//	-d string   local database filename
//	-t int      remote operation timeout in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-r", "-p", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RemoteBackend, "b", cfg.RemoteBackend, "remote backend (redis|postgres)")
	fs.StringVar(&cfg.RedisURL, "r", cfg.RedisURL, "redis URL of the shared store")
	fs.StringVar(&cfg.PostgresDSN, "p", cfg.PostgresDSN, "postgres DSN of the shared store")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database filename")
	remoteTimeout := fs.Int("t", int(cfg.RemoteTimeout.Seconds()), "remote timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RemoteTimeout = time.Duration(*remoteTimeout) * time.Second
}
