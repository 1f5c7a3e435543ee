package bridge

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/shortlink-org/smartapp-bridge/logger"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the diagnostic sink.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMeterProvider enables engine metrics.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(e *Engine) {
		e.meterProvider = provider
	}
}

// WithConfig replaces DefaultConfig. Zero timeouts keep their defaults.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithTokenGenerator replaces the UUID generator used for refs.
func WithTokenGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newToken = fn
		}
	}
}
