package emitter

import "errors"

// ErrTimeout is returned by a Future whose key was not emitted in time.
var ErrTimeout = errors.New("emitter: no event before timeout")
