// Package config loads runtime settings for the VisitorDesk client.
// Values are resolved in three layers: struct defaults, then a JSON config
// file (-c/-config), then command-line flags. Later layers win.
package config

import "time"

// Backend names accepted in RemoteBackend.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds runtime settings for the VisitorDesk CLI.
type Config struct {
	// RemoteBackend selects the remote store implementation:
	// BackendRedis or BackendPostgres.
	RemoteBackend string

	// RedisURL is the redis:// URL of the shared store (redis backend).
	RedisURL string

	// PostgresDSN is the connection string of the shared store
	// (postgres backend).
	PostgresDSN string

	// DatabasePath is the filename of the local SQLite database, created
	// inside the client's data directory.
	DatabasePath string

	// SessionKey signs the persisted session token.
	SessionKey string

	// RemoteTimeout bounds each remote store operation.
	RemoteTimeout time.Duration

	// S3 settings for ledger exports (MinIO-compatible).
	S3Region       string
	S3BaseEndpoint string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults for a local setup.
func (c *Config) LoadDefaults() {
	c.RemoteBackend = BackendRedis
	c.RedisURL = "redis://127.0.0.1:6379/0"
	c.PostgresDSN = ""
	c.DatabasePath = "visitordesk.db"
	c.SessionKey = "visitordesk-dev-session-key"
	c.RemoteTimeout = 3 * time.Second
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.S3Bucket = ""
	c.S3AccessKey = ""
	c.S3SecretKey = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
