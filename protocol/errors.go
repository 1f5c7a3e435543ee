package protocol

import "errors"

// ErrMalformedInbound marks host messages that are not bridge events.
var ErrMalformedInbound = errors.New("protocol: malformed inbound event")
