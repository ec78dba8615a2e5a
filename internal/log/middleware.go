package log

import (
	"context"
	"log/slog"
	"net/http"
)

type ctxKey struct{}

// Middleware makes the configured logger reachable from any handler via
// FromContext.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxKey{}, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext extracts the request logger, falling back to the process
// default outside a request.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: ComponentApp,
	}
}

// StructuredLogger emits the editor's recurring log records with a
// fixed field shape, so a session can be grepped by field name.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogHTTPStart records the arrival of one editor request.
func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, clientIP, requestID string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent"), r.Header.Get("Referer")).
		WithClientIP(clientIP).
		WithRequestID(requestID).
		WithComponent(ComponentHTTP)

	sl.logger.InfoContext(ctx, "HTTP request started", fields.ToSlice()...)
}

// LogHTTPEnd records the outcome, warning on client errors and
// escalating on server errors.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP, requestID string) {
	level := slog.LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = slog.LevelWarn
	} else if statusCode >= 500 {
		level = slog.LevelError
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", "").
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithClientIP(clientIP).
		WithRequestID(requestID).
		WithComponent(ComponentHTTP)

	sl.logger.Logger.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

// LogItemsImported logs a successful bulk replacement of the item list.
func (sl *StructuredLogger) LogItemsImported(ctx context.Context, source string, count int) {
	fields := NewFields().
		WithOperation(OpImport).
		WithComponent(ComponentImporter).
		ToSlice()

	fields = append(fields, FieldItemCount, count, "source", source)

	sl.logger.InfoContext(ctx, "Items imported successfully", fields...)
}

// LogPDFExported logs a successful invoice export.
func (sl *StructuredLogger) LogPDFExported(ctx context.Context, filename string, size int) {
	fields := NewFields().
		WithOperation(OpExport).
		WithComponent(ComponentExport).
		ToSlice()

	fields = append(fields, FieldFilename, filename, "size_bytes", size)

	sl.logger.InfoContext(ctx, "Invoice exported successfully", fields...)
}

// LogError logs a failure with the shared field shape.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)

	sl.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
