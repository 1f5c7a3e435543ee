/*
Package web connects the bridge to the parent window of an iframe.

Envelopes are posted as {type: "smartapp", payload: envelope} to any origin. The parent answers
with window messages, which the embedding code passes to HandleMessage. Unrelated messages
share that channel and are ignored by the engine.
*/
package web

import (
	"context"

	"github.com/shortlink-org/smartapp-bridge/bridge"
	"github.com/shortlink-org/smartapp-bridge/platform/internal/inbox"
	"github.com/shortlink-org/smartapp-bridge/protocol"
)

// AnyOrigin is the target origin of every posted message.
const AnyOrigin = "*"

// Window is the parent window.
type Window interface {
	PostMessage(message any, targetOrigin string)
}

// Transport implements bridge.Transport and bridge.LogForwarder.
type Transport struct {
	parent Window
	inbox  inbox.Inbox
}

var (
	_ bridge.Transport    = (*Transport)(nil)
	_ bridge.LogForwarder = (*Transport)(nil)
)

func New(parent Window) *Transport {
	return &Transport{parent: parent}
}

func (t *Transport) Available() bool {
	return t.parent != nil
}

func (t *Transport) Deliver(_ context.Context, envelope protocol.Outbound) error {
	if t.parent == nil {
		return bridge.ErrTransportUnavailable
	}

	t.parent.PostMessage(map[string]any{
		"type":    protocol.TypeWebCommand,
		"payload": envelope.Map(),
	}, AnyOrigin)

	return nil
}

func (t *Transport) OnInbound(handler bridge.InboundHandler) {
	t.inbox.Set(handler)
}

// HandleMessage takes the data of a window message event.
func (t *Transport) HandleMessage(ctx context.Context, data any) {
	t.inbox.Dispatch(ctx, data)
}

// Forward posts message the way console output is mirrored to the parent.
func (t *Transport) Forward(_ context.Context, message string) error {
	if t.parent == nil {
		return bridge.ErrTransportUnavailable
	}

	t.parent.PostMessage(map[string]any{
		"type":    protocol.TypeRPCLogs,
		"payload": []any{message},
	}, AnyOrigin)

	return nil
}
