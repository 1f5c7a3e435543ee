package bridge

import (
	"time"

	"github.com/shortlink-org/smartapp-bridge/protocol"
)

// ClientEventParams describes a request to the host client itself.
type ClientEventParams struct {
	Method string
	Params any
	// Timeout defaults to Config.ResponseTimeout.
	Timeout           time.Duration
	HideSendEventData bool
	HideRecvEventData bool
}

// BotEventParams describes a request to the smartapp bot.
type BotEventParams struct {
	Method string
	Params any
	// Files are passed through to the host opaquely, only their keys are renamed.
	Files []any
	// Timeout defaults to Config.ResponseTimeout.
	Timeout                    time.Duration
	GuaranteedDeliveryRequired bool
	SyncRequest                bool
	// SyncRequestTimeout defaults to Config.SyncResponseTimeout.
	SyncRequestTimeout time.Duration
	HideSendEventData  bool
	HideRecvEventData  bool
}

type request struct {
	handler            protocol.Handler
	method             string
	params             any
	files              []any
	timeout            time.Duration
	guaranteedDelivery bool
	syncRequest        bool
	syncTimeout        time.Duration
	hideSend           bool
	hideRecv           bool
}
