package broker

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/shortlink-org/smartapp-bridge/logger"
)

type loggerAdapter struct {
	log    logger.Logger
	fields watermill.LogFields
}

// NewLogger lets watermill components write to log.
func NewLogger(log logger.Logger) watermill.LoggerAdapter {
	if log == nil {
		log = logger.NewNop()
	}

	return &loggerAdapter{log: log, fields: watermill.LogFields{}}
}

func (l *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &loggerAdapter{log: l.log, fields: l.fields.Add(fields)}
}

// attrs puts call fields over the base ones.
func (l *loggerAdapter) attrs(fields watermill.LogFields) []slog.Attr {
	merged := l.fields.Add(fields)

	attrs := make([]slog.Attr, 0, len(merged))
	for k, v := range merged {
		attrs = append(attrs, slog.Any(k, v))
	}

	return attrs
}

func (l *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	attrs := l.attrs(fields)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.log.Error(msg, attrs...)
}

func (l *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	l.log.Info(msg, l.attrs(fields)...)
}

func (l *loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	l.log.Debug(msg, l.attrs(fields)...)
}

func (l *loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	l.Debug(msg, fields)
}
