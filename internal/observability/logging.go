// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	GlobalLogger = &Logger{Logger: slog.New(newHandler(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL")))}
}

// newHandler writes JSON to stdout; under APP_ENV=test it writes only warnings
// as text to stderr so test output stays readable.
func newHandler(env, level string) slog.Handler {
	if env == "test" {
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	}
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLevel(level)})
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// CorrelationID is the context key carrying the request's correlation ID.
const CorrelationID LogContextKey = "correlation_id"

// LoggingConfig defines which types of automated logging are enabled.
type LoggingConfig struct {
	EnableCorrelationID bool
	EnableRepoLogging   bool
}

// Config holds the current logging configuration.
var Config = LoggingConfig{
	EnableCorrelationID: true,
	EnableRepoLogging:   true,
}

// GenerateCorrelationID creates a new unique correlation ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationID).(string); ok {
		return id
	}
	return ""
}

// RepoLogger writes one structured line per repository write or failure.
type RepoLogger struct {
	tableName string
	logger    *Logger
}

// NewRepoLogger creates a new RepoLogger for the given table.
func NewRepoLogger(tableName string) *RepoLogger {
	return &RepoLogger{
		tableName: tableName,
		logger:    GlobalLogger,
	}
}

func (l *RepoLogger) write(ctx context.Context, level slog.Level, msg, operation string, fields map[string]interface{}, extra ...any) {
	if !Config.EnableRepoLogging {
		return
	}
	attrs := make([]any, 0, 3+len(extra)+len(fields))
	attrs = append(attrs,
		slog.String("table", l.tableName),
		slog.String("operation", operation),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
	attrs = append(attrs, extra...)
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.Log(ctx, level, msg, attrs...)
}

// LogCreate logs a repository create operation.
func (l *RepoLogger) LogCreate(ctx context.Context, fields map[string]interface{}) {
	l.write(ctx, slog.LevelInfo, "repository create", "create", fields)
}

// LogUpdate logs a repository update operation.
func (l *RepoLogger) LogUpdate(ctx context.Context, fields map[string]interface{}) {
	l.write(ctx, slog.LevelInfo, "repository update", "update", fields)
}

// LogError logs a failed repository operation.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	l.write(ctx, slog.LevelError, "repository error", operation, nil, slog.String("error", err.Error()))
}

func logAsync(ctx context.Context, level slog.Level, msg, operation, kind string, fields map[string]interface{}, extra ...any) {
	attrs := make([]any, 0, 3+len(extra)+len(fields))
	attrs = append(attrs,
		slog.String("operation", operation),
		slog.String("type", kind),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
	attrs = append(attrs, extra...)
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	GlobalLogger.Log(ctx, level, msg, attrs...)
}

// LogAsyncOperationStart logs the start of a background operation.
func LogAsyncOperationStart(ctx context.Context, operation string, fields map[string]interface{}) {
	logAsync(ctx, slog.LevelInfo, "async operation started", operation, "async_start", fields)
}

// LogAsyncOperationEnd logs the completion of a background operation.
func LogAsyncOperationEnd(ctx context.Context, operation string, fields map[string]interface{}) {
	logAsync(ctx, slog.LevelInfo, "async operation completed", operation, "async_end", fields)
}

// LogAsyncOperationError logs a failure that must not fail the caller, such as
// a notification that could not be delivered.
func LogAsyncOperationError(ctx context.Context, operation string, err error, fields map[string]interface{}) {
	logAsync(ctx, slog.LevelError, "async operation failed", operation, "async_error", fields,
		slog.String("error", err.Error()))
}
