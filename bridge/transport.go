package bridge

import (
	"context"

	"github.com/shortlink-org/smartapp-bridge/protocol"
)

// InboundHandler receives every raw message the host sends to the smartapp.
type InboundHandler func(ctx context.Context, raw any)

// Transport is the host communication object of one platform.
type Transport interface {
	// Available reports whether the host exposes its communication object.
	// The engine asks once, at construction.
	Available() bool
	// Deliver hands an envelope to the host. The response arrives later through OnInbound.
	Deliver(ctx context.Context, envelope protocol.Outbound) error
	// OnInbound registers the single handler the host calls back.
	OnInbound(handler InboundHandler)
}

// LogForwarder is implemented by transports that can show app diagnostics on the host side.
type LogForwarder interface {
	Forward(ctx context.Context, message string) error
}
