package bridge

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/shortlink-org/smartapp-bridge/logger"
	"github.com/shortlink-org/smartapp-bridge/protocol"
)

type metrics struct {
	sent           metric.Int64Counter
	received       metric.Int64Counter
	timeouts       metric.Int64Counter
	malformed      metric.Int64Counter
	deliveryErrors metric.Int64Counter
}

func newMetrics(log logger.Logger, provider metric.MeterProvider) *metrics {
	if provider == nil {
		provider = noop.NewMeterProvider()
	}

	m := provider.Meter("smartapp-bridge")

	return &metrics{
		sent:           counter(log, m, "bridge_events_sent_total", "Total number of events handed to the host"),
		received:       counter(log, m, "bridge_events_received_total", "Total number of bridge events received from the host"),
		timeouts:       counter(log, m, "bridge_timeouts_total", "Total number of requests that got no answer in time"),
		malformed:      counter(log, m, "bridge_malformed_inbound_total", "Total number of host messages that were not bridge events"),
		deliveryErrors: counter(log, m, "bridge_delivery_errors_total", "Total number of envelopes the host transport failed to take"),
	}
}

func counter(log logger.Logger, m metric.Meter, name, description string) metric.Int64Counter {
	c, err := m.Int64Counter(name,
		metric.WithDescription(description),
		metric.WithUnit("1"),
	)
	if err != nil {
		log.Error("Failed to create counter metric", slog.String("name", name), slog.String("error", err.Error()))

		c, _ = noop.NewMeterProvider().Meter("smartapp-bridge").Int64Counter(name) //nolint:errcheck // noop never fails
	}

	return c
}

func handlerAttr(handler protocol.Handler) metric.AddOption {
	return metric.WithAttributes(attribute.String("handler", handler.String()))
}

func (m *metrics) recordSent(ctx context.Context, handler protocol.Handler) {
	m.sent.Add(ctx, 1, handlerAttr(handler))
}

func (m *metrics) recordReceived(ctx context.Context, solicited bool) {
	m.received.Add(ctx, 1, metric.WithAttributes(attribute.Bool("solicited", solicited)))
}

func (m *metrics) recordTimeout(ctx context.Context) {
	m.timeouts.Add(ctx, 1)
}

func (m *metrics) recordMalformed(ctx context.Context) {
	m.malformed.Add(ctx, 1)
}

func (m *metrics) recordDeliveryError(ctx context.Context, handler protocol.Handler) {
	m.deliveryErrors.Add(ctx, 1, handlerAttr(handler))
}
