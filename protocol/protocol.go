/*
Package protocol describes the envelopes exchanged between a smartapp and its host.

Field names on the wire are snake_case regardless of the convention used by the app.
*/
package protocol

// Handler selects the backend an event is addressed to.
type Handler string

const (
	// HandlerBotx routes the event to the smartapp bot.
	HandlerBotx Handler = "botx"
	// HandlerExpress routes the event to the host client itself.
	HandlerExpress Handler = "express"
)

func (h Handler) String() string {
	return string(h)
}

const (
	// TypeRPC is the type of every outbound request envelope.
	TypeRPC = "smartapp_rpc"
	// TypeWebCommand wraps envelopes posted to a parent window.
	TypeWebCommand = "smartapp"
	// TypeRPCLogs wraps diagnostics posted to a parent window.
	TypeRPCLogs = "smartAppLogs"
	// LogKey wraps diagnostics sent to native hosts.
	LogKey = "SmartApp Log"
	// ChannelReceive carries inbound events without a ref.
	ChannelReceive = "recv"
)

// Outbound is the request envelope handed to the host.
type Outbound struct {
	Ref                        string  `json:"ref"`
	Type                       string  `json:"type"`
	Method                     string  `json:"method"`
	Handler                    Handler `json:"handler"`
	Payload                    any     `json:"payload"`
	GuaranteedDeliveryRequired bool    `json:"guaranteed_delivery_required"`
	SyncRequest                bool    `json:"sync_request"`
	// SyncRequestTimeout is in milliseconds.
	SyncRequestTimeout int   `json:"sync_request_timeout"`
	HideSendEventData  bool  `json:"hide_send_event_data"`
	HideRecvEventData  bool  `json:"hide_recv_event_data"`
	Files              []any `json:"files,omitempty"`
}

// Map renders the envelope as a plain object for hosts that take structured messages.
func (o Outbound) Map() map[string]any {
	m := map[string]any{
		"ref":                          o.Ref,
		"type":                         o.Type,
		"method":                       o.Method,
		"handler":                      string(o.Handler),
		"payload":                      o.Payload,
		"guaranteed_delivery_required": o.GuaranteedDeliveryRequired,
		"sync_request":                 o.SyncRequest,
		"sync_request_timeout":         o.SyncRequestTimeout,
		"hide_send_event_data":         o.HideSendEventData,
		"hide_recv_event_data":         o.HideRecvEventData,
	}

	if o.Files != nil {
		m["files"] = o.Files
	}

	return m
}

// Inbound is what the host sends back: a response when Ref is set, a notification otherwise.
type Inbound struct {
	Ref   string         `json:"ref,omitempty"`
	Data  map[string]any `json:"data"`
	Files []any          `json:"files,omitempty"`
}

// Type returns data.type.
func (in Inbound) Type() string {
	t, _ := in.Data["type"].(string)
	return t
}

// Fields returns data without its type.
func (in Inbound) Fields() map[string]any {
	fields := make(map[string]any, len(in.Data))
	for k, v := range in.Data {
		if k == "type" {
			continue
		}

		fields[k] = v
	}

	return fields
}

// Event is an inbound envelope after naming conversion.
type Event struct {
	Ref     string         `json:"ref,omitempty"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
	Files   []any          `json:"files,omitempty"`
}
