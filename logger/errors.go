package logger

import "errors"

// ErrInvalidLogLevel is an error when log level is invalid
var ErrInvalidLogLevel = errors.New("invalid log level")
