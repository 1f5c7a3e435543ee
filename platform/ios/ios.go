/*
Package ios connects the bridge to a WKWebView.

Envelopes are posted to the express script message handler as objects, the host answers
through HandleIosEvent.
*/
package ios

import (
	"context"

	"github.com/shortlink-org/smartapp-bridge/bridge"
	"github.com/shortlink-org/smartapp-bridge/platform/internal/inbox"
	"github.com/shortlink-org/smartapp-bridge/protocol"
)

// MessageHandler is the express script message handler registered by the host.
type MessageHandler interface {
	PostMessage(message any)
}

// Transport implements bridge.Transport and bridge.LogForwarder.
type Transport struct {
	handler MessageHandler
	inbox   inbox.Inbox
}

var (
	_ bridge.Transport    = (*Transport)(nil)
	_ bridge.LogForwarder = (*Transport)(nil)
)

func New(handler MessageHandler) *Transport {
	return &Transport{handler: handler}
}

func (t *Transport) Available() bool {
	return t.handler != nil
}

func (t *Transport) Deliver(_ context.Context, envelope protocol.Outbound) error {
	if t.handler == nil {
		return bridge.ErrTransportUnavailable
	}

	t.handler.PostMessage(envelope.Map())

	return nil
}

func (t *Transport) OnInbound(handler bridge.InboundHandler) {
	t.inbox.Set(handler)
}

// HandleIosEvent is evaluated by the host for every answer and notification.
func (t *Transport) HandleIosEvent(ctx context.Context, raw any) {
	t.inbox.Dispatch(ctx, raw)
}

func (t *Transport) Forward(_ context.Context, message string) error {
	if t.handler == nil {
		return bridge.ErrTransportUnavailable
	}

	t.handler.PostMessage(map[string]any{protocol.LogKey: message})

	return nil
}
