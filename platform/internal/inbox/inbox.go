// Package inbox holds the inbound handler an adapter forwards host callbacks to.
package inbox

import (
	"context"
	"sync"

	"github.com/shortlink-org/smartapp-bridge/bridge"
)

// Inbox is safe for concurrent use; the zero value drops every message.
type Inbox struct {
	mu      sync.RWMutex
	handler bridge.InboundHandler
}

// Set replaces the handler.
func (i *Inbox) Set(handler bridge.InboundHandler) {
	i.mu.Lock()
	i.handler = handler
	i.mu.Unlock()
}

// Dispatch reports whether a handler took raw.
func (i *Inbox) Dispatch(ctx context.Context, raw any) bool {
	i.mu.RLock()
	handler := i.handler
	i.mu.RUnlock()

	if handler == nil {
		return false
	}

	if ctx == nil {
		ctx = context.Background()
	}

	handler(ctx, raw)

	return true
}
