package broker_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/shortlink-org/smartapp-bridge/bridge"
	"github.com/shortlink-org/smartapp-bridge/config"
	"github.com/shortlink-org/smartapp-bridge/logger"
	"github.com/shortlink-org/smartapp-bridge/platform/broker"
	"github.com/shortlink-org/smartapp-bridge/protocol"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newPubSub() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, broker.NewLogger(logger.NewNop()))
}

func TestRoundTripThroughEchoHost(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := newPubSub()
	cfg := broker.DefaultConfig()

	echoDone, err := broker.Echo(ctx, nil, pubsub, pubsub, cfg)
	require.NoError(t, err)

	transport, err := broker.New(ctx, nil, pubsub, pubsub, cfg)
	require.NoError(t, err)

	engine := bridge.New(transport)
	require.True(t, engine.Available())

	waitCtx, waitCancel := context.WithTimeout(ctx, 2*time.Second)
	defer waitCancel()

	event, err := engine.SendBotEvent(waitCtx, bridge.BotEventParams{
		Method: "get_weather",
		Params: map[string]any{"cityName": "Moscow"},
		Files:  []any{map[string]any{"fileId": "f1"}},
	}).Wait(waitCtx)
	require.NoError(t, err)
	assert.Equal(t, "get_weather", event.Type)
	assert.Equal(t, map[string]any{"cityName": "Moscow"}, event.Payload)
	assert.Equal(t, []any{map[string]any{"fileId": "f1"}}, event.Files)

	require.NoError(t, transport.Close())
	require.NoError(t, transport.Close())
	assert.False(t, transport.Available())
	require.ErrorIs(t, transport.Deliver(ctx, protocol.Outbound{}), broker.ErrClosed)

	select {
	case <-echoDone:
	case <-time.After(2 * time.Second):
		t.Fatal("echo host did not stop")
	}
}

func TestDeliverSetsMetadata(t *testing.T) {
	ctx := context.Background()
	pubsub := newPubSub()
	cfg := broker.Config{OutboundTopic: "out", InboundTopic: "in", LogTopic: "logs"}

	outbound, err := pubsub.Subscribe(ctx, "out")
	require.NoError(t, err)

	logs, err := pubsub.Subscribe(ctx, "logs")
	require.NoError(t, err)

	transport, err := broker.New(ctx, nil, pubsub, pubsub, cfg)
	require.NoError(t, err)

	require.NoError(t, transport.Deliver(ctx, protocol.Outbound{
		Ref:     "r1",
		Type:    protocol.TypeRPC,
		Method:  "m",
		Handler: protocol.HandlerExpress,
		Payload: map[string]any{"a": 1},
	}))

	msg := receive(t, outbound)
	assert.Equal(t, "r1", msg.Metadata.Get(broker.MetadataRef))
	assert.Equal(t, "express", msg.Metadata.Get(broker.MetadataHandler))
	assert.Equal(t, "m", msg.Metadata.Get(broker.MetadataMethod))

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &envelope))
	assert.Equal(t, protocol.TypeRPC, envelope["type"])

	require.NoError(t, transport.Forward(ctx, "hello"))
	assert.JSONEq(t, `{"SmartApp Log":"hello"}`, string(receive(t, logs).Payload))

	require.NoError(t, transport.Close())
}

func TestInboundReachesEngine(t *testing.T) {
	ctx := context.Background()
	pubsub := newPubSub()

	transport, err := broker.New(ctx, nil, pubsub, pubsub, broker.DefaultConfig())
	require.NoError(t, err)

	engine := bridge.New(transport)

	received := make(chan protocol.Event, 1)
	engine.OnReceive(func(e protocol.Event) { received <- e })

	payload := []byte(`{"data":{"type":"notification","chat_id":"c1"}}`)
	require.NoError(t, pubsub.Publish(broker.DefaultConfig().InboundTopic, message.NewMessage(uuid.NewString(), payload)))

	select {
	case e := <-received:
		assert.Equal(t, "notification", e.Type)
		assert.Equal(t, map[string]any{"chatId": "c1"}, e.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}

	require.NoError(t, transport.Close())
}

func TestNew(t *testing.T) {
	pubsub := newPubSub()
	t.Cleanup(func() {
		require.NoError(t, pubsub.Close())
	})

	_, err := broker.New(context.Background(), nil, nil, pubsub, broker.Config{})
	require.ErrorIs(t, err, broker.ErrNilPublisher)

	_, err = broker.New(context.Background(), nil, pubsub, nil, broker.Config{})
	require.ErrorIs(t, err, broker.ErrNilSubscriber)
}

func TestLoadConfig(t *testing.T) {
	cfg := config.Empty()
	assert.Equal(t, broker.DefaultConfig(), broker.LoadConfig(cfg))

	cfg.Set("BRIDGE_BROKER_INBOUND_TOPIC", "device.answers")
	assert.Equal(t, "device.answers", broker.LoadConfig(cfg).InboundTopic)
}

func receive(t *testing.T, messages <-chan *message.Message) *message.Message {
	t.Helper()

	select {
	case msg := <-messages:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message")
		return nil
	}
}
