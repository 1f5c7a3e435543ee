package bridge

import (
	"time"

	"github.com/shortlink-org/smartapp-bridge/config"
)

const (
	// ResponseTimeout is how long a request waits for its answer by default.
	ResponseTimeout = 30 * time.Second
	// SyncResponseTimeout is the default sync_request_timeout sent to the host.
	SyncResponseTimeout = 30 * time.Second
)

// Config holds engine defaults.
type Config struct {
	ResponseTimeout     time.Duration
	SyncResponseTimeout time.Duration
	RenameParams        bool
	LogsEnabled         bool
}

// DefaultConfig renames params and keeps logs off.
func DefaultConfig() Config {
	return Config{
		ResponseTimeout:     ResponseTimeout,
		SyncResponseTimeout: SyncResponseTimeout,
		RenameParams:        true,
		LogsEnabled:         false,
	}
}

// LoadConfig reads BRIDGE_* keys, falling back to DefaultConfig.
func LoadConfig(cfg *config.Config) Config {
	def := DefaultConfig()

	cfg.SetDefault("BRIDGE_RESPONSE_TIMEOUT", def.ResponseTimeout)
	cfg.SetDefault("BRIDGE_SYNC_RESPONSE_TIMEOUT", def.SyncResponseTimeout)
	cfg.SetDefault("BRIDGE_RENAME_PARAMS", def.RenameParams)
	cfg.SetDefault("BRIDGE_LOGS_ENABLED", def.LogsEnabled)

	conf := Config{
		ResponseTimeout:     cfg.GetDuration("BRIDGE_RESPONSE_TIMEOUT"),
		SyncResponseTimeout: cfg.GetDuration("BRIDGE_SYNC_RESPONSE_TIMEOUT"),
		RenameParams:        cfg.GetBool("BRIDGE_RENAME_PARAMS"),
		LogsEnabled:         cfg.GetBool("BRIDGE_LOGS_ENABLED"),
	}

	return conf.withDefaults()
}

// withDefaults replaces non-positive timeouts with the package defaults.
func (c Config) withDefaults() Config {
	if c.ResponseTimeout <= 0 {
		c.ResponseTimeout = ResponseTimeout
	}

	if c.SyncResponseTimeout <= 0 {
		c.SyncResponseTimeout = SyncResponseTimeout
	}

	return c
}
