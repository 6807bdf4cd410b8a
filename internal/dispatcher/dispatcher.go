// Package dispatcher routes typed session commands to their registered handlers.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrUnknownCommand is returned by Dispatch when no handler is registered.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a typed request. CommandName selects its handler.
type Command interface {
	CommandName() string
}

// HandlerFunc processes one command.
type HandlerFunc func(ctx context.Context, cmd Command) error

// Handle adapts a handler for a concrete command type.
func Handle[C Command](fn func(ctx context.Context, cmd C) error) HandlerFunc {
	return func(ctx context.Context, cmd Command) error {
		typed, ok := cmd.(C)
		if !ok {
			return fmt.Errorf("handler for %s got %T", cmd.CommandName(), cmd)
		}
		return fn(ctx, typed)
	}
}

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// SlogLogger adapts a *slog.Logger to Logger.
func SlogLogger(log *slog.Logger) Logger {
	return slogLogger{log: log}
}

type slogLogger struct {
	log *slog.Logger
}

func (l slogLogger) Debug(msg string, kv ...any) { l.log.Debug(msg, kv...) }
func (l slogLogger) Info(msg string, kv ...any)  { l.log.Info(msg, kv...) }
func (l slogLogger) Error(msg string, kv ...any) { l.log.Error(msg, kv...) }

// Option configures handler registration.
type Option func(*config)

type config struct {
	logged bool
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher routes commands to registered handlers. Registration is not
// synchronized and must finish before the first Dispatch.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger

	// OTEL metrics
	processed metric.Int64Counter
	failed    metric.Int64Counter
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}

	m := meter()

	var err error

	d.processed, err = m.Int64Counter(
		"dispatcher.commands.processed",
		metric.WithDescription("Total commands processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.failed, err = m.Int64Counter(
		"dispatcher.commands.failed",
		metric.WithDescription("Total commands whose handler returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for the given command with optional configuration.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.logged {
		handler = d.withLogging(command, handler)
	}

	d.handlers[command] = d.withMetrics(command, handler)
}

// Dispatch routes a command to its registered handler.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) error {
	h, ok := d.handlers[cmd.CommandName()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.CommandName())
	}
	return h(ctx, cmd)
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	_, ok := d.handlers[command]
	return ok
}

func (d *Dispatcher) withMetrics(command string, h HandlerFunc) HandlerFunc {
	cmdAttr := metric.WithAttributes(attribute.String("command", command))

	return func(ctx context.Context, cmd Command) error {
		err := h(ctx, cmd)
		d.processed.Add(ctx, 1, cmdAttr)
		if err != nil {
			d.failed.Add(ctx, 1, cmdAttr)
		}
		return err
	}
}

func (d *Dispatcher) withLogging(command string, h HandlerFunc) HandlerFunc {
	return func(ctx context.Context, cmd Command) error {
		start := time.Now()
		d.logger.Debug("handling command", "command", command)

		err := h(ctx, cmd)

		if err != nil {
			d.logger.Error("command failed", "command", command, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("command complete", "command", command, "duration", time.Since(start))
		}

		return err
	}
}
