package bridge

import "errors"

// ErrTransportUnavailable is returned for every request of an engine whose host
// did not expose a communication object.
var ErrTransportUnavailable = errors.New("bridge: host transport is unavailable")
