package broker

import (
	"errors"
)

var (
	ErrNilPublisher  = errors.New("broker: publisher is nil")
	ErrNilSubscriber = errors.New("broker: subscriber is nil")
	ErrClosed        = errors.New("broker: transport is closed")
)
