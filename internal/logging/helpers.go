package logging

import (
	"maps"

	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

// WithFields attaches a copy of fields when logger supports FieldsLogger.
// Other loggers, and empty field sets, pass through unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok || len(fields) == 0 {
		return logger
	}
	return fl.WithFields(maps.Clone(fields))
}

// WithError records err's message under "error".
func WithError(logger interfaces.Logger, err error) interfaces.Logger {
	if err == nil {
		return logger
	}
	return WithFields(logger, map[string]any{"error": err.Error()})
}
