package bridge

import (
	"context"
	"log/slog"

	"github.com/shortlink-org/smartapp-bridge/casing"
	"github.com/shortlink-org/smartapp-bridge/protocol"
)

// handleInbound is registered on the transport. Messages that are not bridge events
// are dropped: hosts share the channel with unrelated traffic.
func (e *Engine) handleInbound(ctx context.Context, raw any) {
	if ctx == nil {
		ctx = context.Background()
	}

	in, err := protocol.ParseInbound(raw)
	if err != nil {
		e.metrics.recordMalformed(ctx)
		e.log.DebugWithContext(ctx, "Bridge ~ Ignored host message", slog.String("reason", err.Error()))

		return
	}

	rename := e.takeRename(in.Ref)

	event := protocol.Event{
		Ref:     in.Ref,
		Type:    in.Type(),
		Payload: in.Fields(),
		Files:   in.Files,
	}

	if rename {
		if payload, ok := casing.ToCamel(event.Payload).(map[string]any); ok {
			event.Payload = payload
		}

		event.Files = renameFiles(in.Files, casing.ToCamel)
	}

	loggable := e.redaction.DescribeInbound(in, in.Ref)
	if e.logsEnabled.Load() {
		e.log.InfoWithContext(ctx, "Bridge ~ Incoming event", slog.Any("event", loggable))
	}

	key := in.Ref
	if key == "" {
		key = protocol.ChannelReceive
	}

	e.metrics.recordReceived(ctx, in.Ref != "")

	if reached := e.emitter.Emit(key, event); reached == 0 && in.Ref != "" {
		e.log.DebugWithContext(ctx, "Bridge ~ No pending request for host answer", slog.String("ref", in.Ref))
	}
}
