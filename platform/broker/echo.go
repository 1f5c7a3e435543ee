package broker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"

	"github.com/shortlink-org/smartapp-bridge/logger"
	"github.com/shortlink-org/smartapp-bridge/protocol"
)

// Echo plays the host: every envelope on the outbound topic is answered on the inbound
// topic with data {type: <method>, ...payload}. Files are returned unchanged.
// The subscription is in place when Echo returns; the returned channel is closed once
// ctx is done or the subscriber is closed.
func Echo(
	ctx context.Context,
	log logger.Logger,
	publisher message.Publisher,
	subscriber message.Subscriber,
	cfg Config,
) (<-chan struct{}, error) {
	cfg = cfg.withDefaults()

	if log == nil {
		log = logger.NewNop()
	}

	messages, err := subscriber.Subscribe(ctx, cfg.OutboundTopic)
	if err != nil {
		return nil, fmt.Errorf("broker: subscribe to %s: %w", cfg.OutboundTopic, err)
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		for msg := range messages {
			echo(log, publisher, cfg.InboundTopic, msg)
		}
	}()

	return done, nil
}

func echo(log logger.Logger, publisher message.Publisher, topic string, msg *message.Message) {
	defer msg.Ack()

	answer, err := echoAnswer(msg.Payload)
	if err != nil {
		log.Warn("Echo host ~ Dropped envelope", slog.String("uuid", msg.UUID), slog.String("error", err.Error()))
		return
	}

	if err := publisher.Publish(topic, message.NewMessage(uuid.NewString(), answer)); err != nil {
		log.Warn("Echo host ~ Failed to answer", slog.String("uuid", msg.UUID), slog.String("error", err.Error()))
	}
}

func echoAnswer(payload []byte) ([]byte, error) {
	var envelope struct {
		Ref     string `json:"ref"`
		Method  string `json:"method"`
		Payload any    `json:"payload"`
		Files   []any  `json:"files"`
	}

	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	data := map[string]any{}
	if fields, ok := envelope.Payload.(map[string]any); ok {
		for k, v := range fields {
			data[k] = v
		}
	}

	data["type"] = envelope.Method

	return json.Marshal(protocol.Inbound{Ref: envelope.Ref, Data: data, Files: envelope.Files})
}
