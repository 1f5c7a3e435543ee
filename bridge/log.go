package bridge

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/segmentio/encoding/json"
)

// Log shows data in the host diagnostics. Strings are sent as is, objects as indented JSON,
// anything else is ignored. Nothing happens when the host cannot take diagnostics.
func (e *Engine) Log(ctx context.Context, data any) {
	if !e.available {
		return
	}

	forwarder, ok := e.transport.(LogForwarder)
	if !ok {
		return
	}

	message, ok := logMessage(data)
	if !ok {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := forwarder.Forward(ctx, message); err != nil {
		e.log.WarnWithContext(ctx, "Bridge ~ Host transport failed to take the log", slog.String("error", err.Error()))
	}
}

func logMessage(data any) (string, bool) {
	if data == nil {
		return "", false
	}

	if s, ok := data.(string); ok {
		return s, s != ""
	}

	value := reflect.ValueOf(data)

	switch value.Kind() { //nolint:exhaustive // only objects are logged
	case reflect.Map, reflect.Slice, reflect.Pointer:
		if value.IsNil() {
			return "", false
		}
	case reflect.Struct, reflect.Array:
	default:
		return "", false
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", false
	}

	return string(out), true
}
