package bridge_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shortlink-org/smartapp-bridge/bridge"
	"github.com/shortlink-org/smartapp-bridge/emitter"
	"github.com/shortlink-org/smartapp-bridge/protocol"
)

// fakeHost records what the engine hands over and lets tests answer.
type fakeHost struct {
	mu         sync.Mutex
	available  bool
	delivered  []protocol.Outbound
	logs       []string
	inbound    bridge.InboundHandler
	deliverErr error
	// onDeliver runs synchronously inside Deliver, like a host answering inline.
	onDeliver func(protocol.Outbound)
}

func newFakeHost() *fakeHost {
	return &fakeHost{available: true}
}

func (h *fakeHost) Available() bool {
	return h.available
}

func (h *fakeHost) Deliver(_ context.Context, envelope protocol.Outbound) error {
	h.mu.Lock()
	h.delivered = append(h.delivered, envelope)
	onDeliver := h.onDeliver
	err := h.deliverErr
	h.mu.Unlock()

	if onDeliver != nil {
		onDeliver(envelope)
	}

	return err
}

func (h *fakeHost) OnInbound(handler bridge.InboundHandler) {
	h.inbound = handler
}

func (h *fakeHost) Forward(_ context.Context, message string) error {
	h.mu.Lock()
	h.logs = append(h.logs, message)
	h.mu.Unlock()

	return nil
}

func (h *fakeHost) send(raw any) {
	h.inbound(context.Background(), raw)
}

func (h *fakeHost) last(t *testing.T) protocol.Outbound {
	t.Helper()

	h.mu.Lock()
	defer h.mu.Unlock()

	require.NotEmpty(t, h.delivered, "nothing was delivered")

	return h.delivered[len(h.delivered)-1]
}

func (h *fakeHost) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.delivered)
}

func await(t *testing.T, f *emitter.Future[protocol.Event]) (protocol.Event, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return f.Wait(ctx)
}

func answer(ref string, data map[string]any) map[string]any {
	return map[string]any{"ref": ref, "data": data}
}
