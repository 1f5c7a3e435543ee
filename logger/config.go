package logger

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Log levels, lower is more severe.
const (
	ERROR_LEVEL = iota //nolint:revive,staticcheck // public API
	WARN_LEVEL         //nolint:revive,staticcheck // public API
	INFO_LEVEL         //nolint:revive,staticcheck // public API
	DEBUG_LEVEL        //nolint:revive,staticcheck // public API
)

// Configuration of the slog backed logger.
type Configuration struct {
	Writer     io.Writer
	TimeFormat string
	Level      int
}

// Default returns the configuration used when nothing is set.
func Default() Configuration {
	return Configuration{
		Writer:     os.Stdout,
		TimeFormat: time.RFC3339Nano,
		Level:      INFO_LEVEL,
	}
}

// Validate checks the level and fills empty fields with defaults.
func (c *Configuration) Validate() error {
	if c.Level < ERROR_LEVEL || c.Level > DEBUG_LEVEL {
		return fmt.Errorf("%w: %d", ErrInvalidLogLevel, c.Level)
	}

	if c.Writer == nil {
		c.Writer = os.Stdout
	}

	if c.TimeFormat == "" {
		c.TimeFormat = time.RFC3339Nano
	}

	return nil
}
