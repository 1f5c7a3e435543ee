package bridge

import (
	"context"
	"log/slog"

	"github.com/shortlink-org/smartapp-bridge/casing"
	"github.com/shortlink-org/smartapp-bridge/emitter"
	"github.com/shortlink-org/smartapp-bridge/protocol"
)

// SendBotEvent sends an event to the smartapp bot and returns a Future of its answer.
//
//	event, err := engine.SendBotEvent(ctx, bridge.BotEventParams{
//		Method: "get_weather",
//		Params: map[string]any{"cityName": "Moscow"},
//	}).Wait(ctx)
func (e *Engine) SendBotEvent(ctx context.Context, params BotEventParams) *emitter.Future[protocol.Event] {
	return e.dispatch(ctx, request{
		handler:            protocol.HandlerBotx,
		method:             params.Method,
		params:             params.Params,
		files:              params.Files,
		timeout:            params.Timeout,
		guaranteedDelivery: params.GuaranteedDeliveryRequired,
		syncRequest:        params.SyncRequest,
		syncTimeout:        params.SyncRequestTimeout,
		hideSend:           params.HideSendEventData,
		hideRecv:           params.HideRecvEventData,
	})
}

// SendClientEvent sends an event to the host client and returns a Future of its answer.
func (e *Engine) SendClientEvent(ctx context.Context, params ClientEventParams) *emitter.Future[protocol.Event] {
	return e.dispatch(ctx, request{
		handler:  protocol.HandlerExpress,
		method:   params.Method,
		params:   params.Params,
		timeout:  params.Timeout,
		hideSend: params.HideSendEventData,
		hideRecv: params.HideRecvEventData,
	})
}

func (e *Engine) dispatch(ctx context.Context, req request) *emitter.Future[protocol.Event] {
	if !e.available {
		return emitter.Rejected[protocol.Event](ErrTransportUnavailable)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if req.timeout <= 0 {
		req.timeout = e.cfg.ResponseTimeout
	}

	if req.syncTimeout <= 0 {
		req.syncTimeout = e.cfg.SyncResponseTimeout
	}

	token := e.newToken()

	// taken once, the answer to this ref is read with the same decision
	rename := req.handler == protocol.HandlerExpress || e.renameParams.Load()

	envelope := protocol.Outbound{
		Ref:                        token,
		Type:                       protocol.TypeRPC,
		Method:                     req.method,
		Handler:                    req.handler,
		Payload:                    req.params,
		GuaranteedDeliveryRequired: req.guaranteedDelivery,
		SyncRequest:                req.syncRequest,
		SyncRequestTimeout:         int(req.syncTimeout.Milliseconds()),
		HideSendEventData:          req.hideSend,
		HideRecvEventData:          req.hideRecv,
		Files:                      req.files,
	}

	if rename {
		envelope.Payload = casing.ToSnake(req.params)
		envelope.Files = renameFiles(req.files, casing.ToSnake)
	}

	e.redaction.RecordOutboundFlags(token, req.hideSend, req.hideRecv)
	e.rememberRename(token, rename)

	if e.logsEnabled.Load() {
		e.log.InfoWithContext(ctx, "Bridge ~ Outgoing event", slog.Any("event", e.redaction.DescribeOutbound(envelope)))
	}

	// hosts may answer before Deliver returns, so the listener goes first
	future := e.emitter.OnceWithTimeout(token, req.timeout)

	if err := e.transport.Deliver(ctx, envelope); err != nil {
		e.metrics.recordDeliveryError(ctx, req.handler)
		e.log.WarnWithContext(ctx, "Bridge ~ Host transport failed to take the event",
			slog.String("ref", token),
			slog.String("method", req.method),
			slog.String("error", err.Error()),
		)
	}

	e.metrics.recordSent(ctx, req.handler)

	return future
}

func renameFiles(files []any, rename func(any) any) []any {
	if files == nil {
		return nil
	}

	out := make([]any, len(files))
	for i, file := range files {
		out[i] = rename(file)
	}

	return out
}
