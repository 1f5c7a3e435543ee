package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithFields(t *testing.T) {
	var b bytes.Buffer
	conf := Configuration{
		Level:      INFO_LEVEL,
		Writer:     &b,
		TimeFormat: time.RFC822,
	}

	log, err := New(conf)
	require.NoError(t, err)

	bridgeLogger := log.WithFields(slog.String("platform", "ios"), slog.String("component", "bridge"))
	bridgeLogger.Info("Event sent", slog.String("method", "get_weather"))

	require.Contains(t, b.String(), `"platform":"ios"`)
	require.Contains(t, b.String(), `"component":"bridge"`)
	require.Contains(t, b.String(), `"method":"get_weather"`)
}

func TestWithError(t *testing.T) {
	var b bytes.Buffer
	conf := Configuration{
		Level:      ERROR_LEVEL,
		Writer:     &b,
		TimeFormat: time.RFC822,
	}

	log, err := New(conf)
	require.NoError(t, err)

	errorLogger := log.WithError(errors.New("test error"))
	errorLogger.Error("Operation failed", slog.String("operation", "deliver"))

	require.Contains(t, b.String(), `"error":"test error"`)
	require.Contains(t, b.String(), `"operation":"deliver"`)
}

func TestWithErrorNil(t *testing.T) {
	var b bytes.Buffer
	conf := Configuration{
		Level:      INFO_LEVEL,
		Writer:     &b,
		TimeFormat: time.RFC822,
	}

	log, err := New(conf)
	require.NoError(t, err)

	errorLogger := log.WithError(nil)
	errorLogger.Info("Message")

	// Should not add error field
	require.NotContains(t, b.String(), `"error"`)
}

func TestWithFieldsEmpty(t *testing.T) {
	var b bytes.Buffer
	conf := Configuration{
		Level:      INFO_LEVEL,
		Writer:     &b,
		TimeFormat: time.RFC822,
	}

	log, err := New(conf)
	require.NoError(t, err)

	require.Same(t, log, log.WithFields())

	log.WithFields().Info("Message")
	require.Contains(t, b.String(), `"Message"`)
}
