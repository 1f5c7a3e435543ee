package tracer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// callersSkip is the number of callers to skip when getting function name.
	callersSkip = 4

	severityWarn  = "WARN"
	severityError = "ERROR"
)

// NewTraceFromContext attaches a log record to the active span of ctx as an event.
// Without an active span only WARN and ERROR records open a short span of their own;
// other severities return fields untouched.
// When a span is involved the returned fields carry traceID and spanID.
func NewTraceFromContext(
	ctx context.Context, //nolint:contextcheck // contextcheck: ctx is not nil
	severity string,
	msg string,
	tags []attribute.KeyValue,
	fields ...slog.Attr,
) ([]slog.Attr, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	attrs := make([]attribute.KeyValue, 0, len(fields)+len(tags)+2) //nolint:mnd // severity and message
	attrs = append(attrs,
		attribute.String("log.severity", severity),
		attribute.String("log.message", msg),
	)
	attrs = append(attrs, FieldsToOpenTelemetry(fields...)...)
	attrs = append(attrs, tags...)

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		span.AddEvent("log."+severity, trace.WithAttributes(attrs...))

		if severity == severityError {
			span.SetStatus(codes.Error, msg)
		}

		return withCorrelation(fields, span.SpanContext()), nil
	}

	if severity != severityWarn && severity != severityError {
		return fields, nil
	}

	_, span := otel.Tracer("logger").Start(ctx, getNameFunc())
	span.SetAttributes(attrs...)

	if severity == severityError {
		span.SetStatus(codes.Error, msg)
	}

	spanCtx := span.SpanContext()
	span.End()

	return withCorrelation(fields, spanCtx), nil
}

func withCorrelation(fields []slog.Attr, spanCtx trace.SpanContext) []slog.Attr {
	if !spanCtx.IsValid() {
		return fields
	}

	result := make([]slog.Attr, 0, len(fields)+2) //nolint:mnd // trace and span id
	result = append(result, fields...)
	result = append(result,
		slog.String("traceID", spanCtx.TraceID().String()),
		slog.String("spanID", spanCtx.SpanID().String()),
	)

	return result
}

// getNameFunc returns the name of the function calling the logger
// for set name of span.
func getNameFunc() string {
	pc := make([]uintptr, 1)
	if n := runtime.Callers(callersSkip, pc); n > 0 {
		if f := runtime.FuncForPC(pc[0]); f != nil {
			return f.Name()
		}
	}

	return "log"
}

// FieldsToOpenTelemetry converts fields to OpenTelemetry attributes.
// "err" becomes exception.message/exception.type and "is_error" becomes a log.is_error bool.
func FieldsToOpenTelemetry(fields ...slog.Attr) []attribute.KeyValue {
	if len(fields) == 0 {
		return nil
	}

	openTelemetryFields := make([]attribute.KeyValue, 0, len(fields))

	for _, field := range fields {
		if field.Key == "" {
			continue
		}

		value := field.Value.Resolve()

		switch field.Key {
		case "err":
			openTelemetryFields = append(openTelemetryFields, exception(value)...)
			continue
		case "is_error":
			openTelemetryFields = append(openTelemetryFields, attribute.Bool("log.is_error", truthy(value)))
			continue
		}

		switch value.Kind() {
		case slog.KindString:
			openTelemetryFields = append(openTelemetryFields, attribute.String(field.Key, value.String()))
		case slog.KindBool:
			openTelemetryFields = append(openTelemetryFields, attribute.Bool(field.Key, value.Bool()))
		case slog.KindInt64:
			openTelemetryFields = append(openTelemetryFields, attribute.Int64(field.Key, value.Int64()))
		case slog.KindFloat64:
			openTelemetryFields = append(openTelemetryFields, attribute.Float64(field.Key, value.Float64()))
		case slog.KindAny:
			if err, ok := value.Any().(error); ok {
				openTelemetryFields = append(openTelemetryFields, attribute.String(field.Key, err.Error()))
				continue
			}

			openTelemetryFields = append(openTelemetryFields, attribute.String(field.Key, toString(value.Any())))
		default:
			openTelemetryFields = append(openTelemetryFields, attribute.String(field.Key, value.String()))
		}
	}

	return openTelemetryFields
}

func exception(value slog.Value) []attribute.KeyValue {
	if value.Kind() == slog.KindAny {
		if err, ok := value.Any().(error); ok {
			return []attribute.KeyValue{
				attribute.String("exception.message", err.Error()),
				attribute.String("exception.type", fmt.Sprintf("%T", err)),
			}
		}
	}

	return []attribute.KeyValue{
		attribute.String("exception.message", value.String()),
		attribute.String("exception.type", "string"),
	}
}

func truthy(value slog.Value) bool {
	switch value.Kind() {
	case slog.KindBool:
		return value.Bool()
	case slog.KindString:
		ok, err := strconv.ParseBool(value.String())
		return err == nil && ok
	default:
		return false
	}
}

// toString converts any value to string.
func toString(v any) string {
	if v == nil {
		return ""
	}

	return fmt.Sprintf("%v", v)
}
