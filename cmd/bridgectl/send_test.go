package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/shortlink-org/smartapp-bridge/protocol"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("LOG_LEVEL", "0")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer

	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)

	return out.String(), err
}

func TestSendBotEvent(t *testing.T) {
	out, err := run(t, "send", "--method", "get_weather", "--params", `{"cityName":"Moscow"}`)
	require.NoError(t, err)

	var event protocol.Event
	require.NoError(t, json.Unmarshal([]byte(out), &event))
	assert.Equal(t, "get_weather", event.Type)
	assert.Equal(t, map[string]any{"cityName": "Moscow"}, event.Payload)
	assert.NotEmpty(t, event.Ref)
}

func TestSendClientEventWithoutRename(t *testing.T) {
	// client events are renamed whatever the flag says
	out, err := run(t, "send", "--method", "open", "--handler", "client", "--no-rename", "--params", `{"userHuid":"u1"}`)
	require.NoError(t, err)
	assert.Contains(t, out, `"userHuid": "u1"`)
}

func TestSendRejectsBadInput(t *testing.T) {
	_, err := run(t, "send", "--method", "m", "--handler", "desktop")
	require.ErrorIs(t, err, ErrUnknownHandler)

	_, err = run(t, "send", "--method", "m", "--params", "{")
	require.Error(t, err)

	_, err = run(t, "send")
	require.Error(t, err)
}
