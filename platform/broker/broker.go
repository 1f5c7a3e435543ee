/*
Package broker carries bridge envelopes over a watermill publisher and subscriber.

It serves hosts that are not in the same process: a relay forwards the outbound topic to
the device and publishes the device answers to the inbound topic. Payloads are the JSON
envelopes the Android host takes.
*/
package broker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/segmentio/encoding/json"
	"go.uber.org/atomic"

	"github.com/shortlink-org/smartapp-bridge/bridge"
	"github.com/shortlink-org/smartapp-bridge/logger"
	"github.com/shortlink-org/smartapp-bridge/platform/internal/inbox"
	"github.com/shortlink-org/smartapp-bridge/protocol"
)

// Metadata keys set on every outbound message.
const (
	MetadataRef     = "ref"
	MetadataHandler = "handler"
	MetadataMethod  = "method"
)

// Transport implements bridge.Transport and bridge.LogForwarder.
type Transport struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	cfg        Config
	log        logger.Logger

	inbox  inbox.Inbox
	closed *atomic.Bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var (
	_ bridge.Transport    = (*Transport)(nil)
	_ bridge.LogForwarder = (*Transport)(nil)
)

// New subscribes to the inbound topic. Messages received before the engine registers
// its handler are acked and dropped. Close stops the subscription.
func New(
	ctx context.Context,
	log logger.Logger,
	publisher message.Publisher,
	subscriber message.Subscriber,
	cfg Config,
) (*Transport, error) {
	if publisher == nil {
		return nil, ErrNilPublisher
	}

	if subscriber == nil {
		return nil, ErrNilSubscriber
	}

	if log == nil {
		log = logger.NewNop()
	}

	t := &Transport{
		publisher:  publisher,
		subscriber: subscriber,
		cfg:        cfg.withDefaults(),
		log:        log,
		closed:     atomic.NewBool(false),
	}

	ctx, t.cancel = context.WithCancel(ctx)

	messages, err := subscriber.Subscribe(ctx, t.cfg.InboundTopic)
	if err != nil {
		t.cancel()
		return nil, fmt.Errorf("broker: subscribe to %s: %w", t.cfg.InboundTopic, err)
	}

	t.wg.Add(1)

	go t.consume(messages)

	return t, nil
}

func (t *Transport) consume(messages <-chan *message.Message) {
	defer t.wg.Done()

	for msg := range messages {
		if !t.inbox.Dispatch(msg.Context(), []byte(msg.Payload)) {
			t.log.Debug("Bridge ~ Dropped host message, no handler registered",
				slog.String("uuid", msg.UUID),
			)
		}

		msg.Ack()
	}
}

func (t *Transport) Available() bool {
	return !t.closed.Load()
}

func (t *Transport) Deliver(ctx context.Context, envelope protocol.Outbound) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("broker: encode envelope: %w", err)
	}

	msg := t.message(ctx, payload)
	msg.Metadata.Set(MetadataRef, envelope.Ref)
	msg.Metadata.Set(MetadataHandler, envelope.Handler.String())
	msg.Metadata.Set(MetadataMethod, envelope.Method)

	return t.publish(t.cfg.OutboundTopic, msg)
}

func (t *Transport) OnInbound(handler bridge.InboundHandler) {
	t.inbox.Set(handler)
}

func (t *Transport) Forward(ctx context.Context, message string) error {
	payload, err := json.Marshal(map[string]string{protocol.LogKey: message})
	if err != nil {
		return fmt.Errorf("broker: encode log: %w", err)
	}

	return t.publish(t.cfg.LogTopic, t.message(ctx, payload))
}

func (t *Transport) message(ctx context.Context, payload []byte) *message.Message {
	msg := message.NewMessage(uuid.NewString(), payload)
	if ctx != nil {
		msg.SetContext(ctx)
	}

	return msg
}

func (t *Transport) publish(topic string, msg *message.Message) error {
	if t.closed.Load() {
		return ErrClosed
	}

	if err := t.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("broker: publish to %s: %w", topic, err)
	}

	return nil
}

// Close stops consuming and closes the publisher and the subscriber.
// It is safe to call more than once.
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	var errs *multierror.Error

	if err := t.subscriber.Close(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("failed to close subscriber: %w", err))
	}

	t.cancel()
	t.wg.Wait()

	// publisher and subscriber may be the same pub/sub
	if closer, ok := t.publisher.(message.Subscriber); !ok || closer != t.subscriber {
		if err := t.publisher.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to close publisher: %w", err))
		}
	}

	return errs.ErrorOrNil()
}
