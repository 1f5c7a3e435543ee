/*
Package android connects the bridge to an Android WebView.

The host injects an object exposing HandleSmartAppEvent and answers by calling
HandleAndroidEvent with a JSON string.
*/
package android

import (
	"context"
	"fmt"

	"github.com/segmentio/encoding/json"

	"github.com/shortlink-org/smartapp-bridge/bridge"
	"github.com/shortlink-org/smartapp-bridge/platform/internal/inbox"
	"github.com/shortlink-org/smartapp-bridge/protocol"
)

// Host is the Android communication object.
type Host interface {
	HandleSmartAppEvent(message string)
}

// Transport implements bridge.Transport and bridge.LogForwarder.
type Transport struct {
	host  Host
	inbox inbox.Inbox
}

var (
	_ bridge.Transport    = (*Transport)(nil)
	_ bridge.LogForwarder = (*Transport)(nil)
)

// New wraps host; a nil host makes the transport unavailable.
func New(host Host) *Transport {
	return &Transport{host: host}
}

func (t *Transport) Available() bool {
	return t.host != nil
}

// Deliver serializes the envelope, the Android host only takes strings.
func (t *Transport) Deliver(_ context.Context, envelope protocol.Outbound) error {
	if t.host == nil {
		return bridge.ErrTransportUnavailable
	}

	message, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("android: encode envelope: %w", err)
	}

	t.host.HandleSmartAppEvent(string(message))

	return nil
}

func (t *Transport) OnInbound(handler bridge.InboundHandler) {
	t.inbox.Set(handler)
}

// HandleAndroidEvent is called by the host with a JSON string or a decoded object.
func (t *Transport) HandleAndroidEvent(ctx context.Context, raw any) {
	t.inbox.Dispatch(ctx, raw)
}

// Forward wraps message under protocol.LogKey.
func (t *Transport) Forward(_ context.Context, message string) error {
	if t.host == nil {
		return bridge.ErrTransportUnavailable
	}

	out, err := json.MarshalIndent(map[string]string{protocol.LogKey: message}, "", "  ")
	if err != nil {
		return fmt.Errorf("android: encode log: %w", err)
	}

	t.host.HandleSmartAppEvent(string(out))

	return nil
}
