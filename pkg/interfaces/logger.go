package interfaces

import "context"

// Logger is the leveled logger used across synchronizers, stores and the
// HTTP API. Its method set matches go-logger's, so a glog.Logger can be
// adapted without reshaping calls.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out a logger per module name, such as "sections.sync".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry fields on every
// entry. WithFields returns a new logger and leaves the receiver unchanged.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
