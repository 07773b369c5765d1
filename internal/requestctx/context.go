// Package requestctx carries the request-scoped logger and trace metadata.
package requestctx

import (
	"context"

	"go.uber.org/zap"
)

type (
	loggerKey struct{}
	traceKey  struct{}
)

var noop = zap.NewNop()

// TraceInfo is the trace/span pair of the current request.
type TraceInfo struct {
	TraceID   string
	SpanID    string
	Sampled   bool
	ProjectID string
}

// LogFields correlates a log entry with its trace in Cloud Logging. Without a
// project id only the raw ids are emitted.
func (t TraceInfo) LogFields() []zap.Field {
	if t.TraceID == "" {
		return nil
	}
	if t.ProjectID == "" {
		return []zap.Field{zap.String("trace_id", t.TraceID), zap.String("span_id", t.SpanID)}
	}
	return []zap.Field{
		zap.String("logging.googleapis.com/trace", "projects/"+t.ProjectID+"/traces/"+t.TraceID),
		zap.String("logging.googleapis.com/spanId", t.SpanID),
		zap.Bool("logging.googleapis.com/trace_sampled", t.Sampled),
	}
}

func lookup[T any](ctx context.Context, key any) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(key).(T)
	return v, ok
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// WithLogger returns ctx carrying logger. A nil logger stores the no-op logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if logger == nil {
		logger = noop
	}
	return context.WithValue(orBackground(ctx), loggerKey{}, logger)
}

// Logger returns the request logger, or a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if l, ok := lookup[*zap.Logger](ctx, loggerKey{}); ok && l != nil {
		return l
	}
	return noop
}

// NoopLogger is the logger returned when none was stored.
func NoopLogger() *zap.Logger { return noop }

// WithTrace returns ctx carrying info.
func WithTrace(ctx context.Context, info TraceInfo) context.Context {
	return context.WithValue(orBackground(ctx), traceKey{}, info)
}

// Trace returns the trace metadata stored by the trace middleware.
func Trace(ctx context.Context) (TraceInfo, bool) {
	return lookup[TraceInfo](ctx, traceKey{})
}

// TraceID is a shortcut for Trace(ctx).TraceID.
func TraceID(ctx context.Context) string {
	info, _ := Trace(ctx)
	return info.TraceID
}
