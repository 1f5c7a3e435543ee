package logger

import "log/slog"

// WithFields creates a new logger with pre-set fields
func (log *SlogLogger) WithFields(fields ...slog.Attr) *SlogLogger {
	if len(fields) == 0 {
		return log
	}

	args := make([]any, 0, len(fields))
	for _, field := range fields {
		args = append(args, field)
	}

	return &SlogLogger{logger: log.logger.With(args...)}
}

// WithError creates a new logger with error field
func (log *SlogLogger) WithError(err error) *SlogLogger {
	if err == nil {
		return log
	}

	return log.WithFields(slog.String("error", err.Error()))
}

