// Package log is the editor's slog wrapper. Every record carries a
// component attribute so one busy invoice session can be filtered down
// to the subsystem that produced it: http, importer, vision, export,
// amqp and so on.
package log

import (
	"context"
	"log/slog"
	"os"
)

// Logger stamps a component onto every record it emits.
type Logger struct {
	*slog.Logger
	component string
}

// Config selects the level, the component stamp and optionally a custom
// handler. A nil Handler means text on stdout at the configured level.
type Config struct {
	Level     slog.Level
	Component string
	Handler   slog.Handler
}

func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
	}
}

func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: config.Level,
		})
	}
	component := config.Component
	if component == "" {
		component = ComponentApp
	}
	return &Logger{
		Logger:    slog.New(handler),
		component: component,
	}
}

// With returns a logger carrying extra attributes on every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		component: l.component,
	}
}

// WithComponent rebrands the logger for another subsystem.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With(FieldComponent, component),
		component: component,
	}
}

// Component returns the logger's component stamp.
func (l *Logger) Component() string { return l.component }

// The level methods mirror slog but prepend the component attribute.

func (l *Logger) Debug(msg string, args ...any) {
	l.Logger.Debug(msg, l.stamped(args)...)
}

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.Logger.DebugContext(ctx, msg, l.stamped(args)...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.Logger.Info(msg, l.stamped(args)...)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.Logger.InfoContext(ctx, msg, l.stamped(args)...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.Logger.Warn(msg, l.stamped(args)...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.Logger.WarnContext(ctx, msg, l.stamped(args)...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.Logger.Error(msg, l.stamped(args)...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.Logger.ErrorContext(ctx, msg, l.stamped(args)...)
}

func (l *Logger) stamped(args []any) []any {
	return append([]any{FieldComponent, l.component}, args...)
}

// SetDefault routes bare slog calls through this logger.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}
