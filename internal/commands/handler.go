package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-cms-sections/internal/logging"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

// DefaultTimeout bounds a command run unless WithTimeout says otherwise.
const DefaultTimeout = 30 * time.Second

// Targeted is implemented by commands addressed to one section in one
// locale. The handler adds the target to every log entry.
type Targeted interface {
	SectionTarget() (section, locale string)
}

// HandlerOption configures a Handler.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler runs a command function as a go-command Commander. It validates the
// message, bounds the run with a timeout and tags failures with a category
// and text code.
type Handler[T command.Message] struct {
	run       command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
}

// NewHandler wraps fn. It panics when fn is nil.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{run: fn, logger: logging.NoOp(), timeout: DefaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// WithTimeout overrides DefaultTimeout. Zero or less disables the bound.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger sets the logger. Nil keeps the no-op default.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = EnsureLogger(logger)
	}
}

// WithOperation names the operation in log entries.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// Execute implements command.Commander[T].
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	logger := h.loggerFor(ctx, msg)
	logger.Debug("sections.command.start")
	started := time.Now()

	err := h.run(ctx, msg)
	elapsed := time.Since(started).Milliseconds()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		logging.WithError(logger, err).Error("sections.command.failed", "duration_ms", elapsed)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return wrapContextError(err)
		}
		return wrapExecuteError(err)
	}

	logger.Info("sections.command.done", "duration_ms", elapsed)
	return nil
}

func (h *Handler[T]) loggerFor(ctx context.Context, msg T) interfaces.Logger {
	fields := map[string]any{"command": command.GetMessageType(msg)}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if target, ok := any(msg).(Targeted); ok {
		section, locale := target.SectionTarget()
		ctx = logging.ContextWithSection(ctx, "", section, locale)
	}
	return logging.WithFields(h.logger, fields).WithContext(ctx)
}
