package logging

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type requestIDKey struct{}

// New builds the process logger. Production uses JSON output, everything
// else the console encoder.
func New(level, env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// WithRequestID stores the request id for loggers built from ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger tags every line with the request id and an operation name.
type Logger struct {
	base      *zap.SugaredLogger
	requestID string
}

// FromContext builds a request-scoped logger on top of base.
func FromContext(ctx context.Context, base *zap.Logger) *Logger {
	if base == nil {
		base = zap.NewNop()
	}
	rid := RequestID(ctx)
	if rid == "" {
		rid = "unknown"
	}
	return &Logger{base: base.Sugar(), requestID: rid}
}

func (l *Logger) with(operation string) *zap.SugaredLogger {
	return l.base.With("request_id", l.requestID, "operation", operation)
}

func (l *Logger) LogError(operation string, err error) {
	l.with(operation).Errorw("operation failed", "error", err)
}

func (l *Logger) LogErrorf(operation, format string, args ...any) {
	l.with(operation).Errorf(format, args...)
}

func (l *Logger) LogInfof(operation, format string, args ...any) {
	l.with(operation).Infof(format, args...)
}

func (l *Logger) LogWarnf(operation, format string, args ...any) {
	l.with(operation).Warnf(format, args...)
}
