package logger

import (
	"context"
	"log/slog"
)

type nopLogger struct{}

// NewNop returns a Logger that discards everything.
//
//nolint:ireturn // It's made by design
func NewNop() Logger {
	return nopLogger{}
}

func (nopLogger) Error(string, ...slog.Attr)                             {}
func (nopLogger) ErrorWithContext(context.Context, string, ...slog.Attr) {}
func (nopLogger) Warn(string, ...slog.Attr)                              {}
func (nopLogger) WarnWithContext(context.Context, string, ...slog.Attr)  {}
func (nopLogger) Info(string, ...slog.Attr)                              {}
func (nopLogger) InfoWithContext(context.Context, string, ...slog.Attr)  {}
func (nopLogger) Debug(string, ...slog.Attr)                             {}
func (nopLogger) DebugWithContext(context.Context, string, ...slog.Attr) {}
func (nopLogger) Close() error                                           { return nil }
