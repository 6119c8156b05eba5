package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const defaultHandlerTimeout = 30 * time.Second

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler wraps command execution with shared runtime concerns (context,
// logging, error tagging, telemetry).
type Handler[T command.Message] struct {
	exec          command.CommandFunc[T]
	logger        interfaces.Logger
	timeout       time.Duration
	operation     string
	messageFields func(T) map[string]any
	telemetry     Telemetry[T]
}

// NewHandler creates a handler that satisfies go-command's Commander interface
// while applying validation, logging, and timeout enforcement.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: defaultHandlerTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute conforms to command.Commander[T].Execute and applies validation,
// context management, logging, and error categorisation before delegating to
// the wrapped function.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}

	ctx = ensureContext(ctx)
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	messageType := command.GetMessageType(msg)
	fields := map[string]any{
		"command": messageType,
	}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.messageFields != nil {
		for key, value := range h.messageFields(msg) {
			fields[key] = value
		}
	}
	logger := logging.WithFields(h.logger, fields)
	logger.Debug("command.execute.start")

	started := time.Now()
	execErr := h.exec(ctx, msg)
	duration := time.Since(started)

	if execErr != nil {
		logger.Error("command.execute.failed", "error", execErr)
		h.emitTelemetry(ctx, msg, messageType, fields, duration, execErr, TelemetryStatusFailed)
		return wrapExecuteError(execErr)
	}

	if err := ctx.Err(); err != nil {
		logger.Error("command.execute.context_error", "error", err)
		h.emitTelemetry(ctx, msg, messageType, fields, duration, err, TelemetryStatusContextError)
		return wrapContextError(err)
	}

	logger.Info("command.execute.success")
	h.emitTelemetry(ctx, msg, messageType, fields, duration, nil, TelemetryStatusSuccess)
	return nil
}

func (h *Handler[T]) emitTelemetry(ctx context.Context, msg T, messageType string, fields map[string]any, duration time.Duration, err error, status TelemetryStatus) {
	if h.telemetry == nil {
		return
	}
	h.telemetry(ctx, msg, TelemetryInfo{
		Command:   messageType,
		Operation: h.operation,
		Fields:    fields,
		Duration:  duration,
		Error:     err,
		Status:    status,
		Logger:    h.logger,
	})
}

// WithTimeout overrides the default execution timeout.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout <= 0 {
			h.timeout = 0
			return
		}
		h.timeout = timeout
	}
}

// WithLogger injects the logger used during execution. Defaults to a no-op logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger == nil {
			h.logger = logging.NoOp()
			return
		}
		h.logger = logger
	}
}

// WithOperation sets a human-friendly operation name emitted with every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields registers a function that derives structured log fields
// from the message being executed.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.messageFields = fn
	}
}

// WithTelemetry registers a callback invoked after every execution with the
// outcome and duration.
func WithTelemetry[T command.Message](telemetry Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.telemetry = telemetry
	}
}

func (h *Handler[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
