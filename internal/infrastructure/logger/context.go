package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type scopeKey struct{}

// scope is the per-request logging state carried in a context.Context
type scope struct {
	logger    *zap.Logger
	requestID string
}

// NewRequestContext derives a logger tagged with requestID and the active trace, and stores both in ctx
func NewRequestContext(ctx context.Context, base *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	l := base
	if requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	l = l.With(traceFields(ctx)...)
	return context.WithValue(ctx, scopeKey{}, scope{logger: l, requestID: requestID}), l
}

// FromContext returns the request logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if s, ok := ctx.Value(scopeKey{}).(scope); ok && s.logger != nil {
		return s.logger
	}
	return zap.NewNop()
}

// RequestIDFromContext returns the request id stored in ctx, or ""
func RequestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(scopeKey{}).(scope); ok {
		return s.requestID
	}
	return ""
}

// traceFields returns trace_id and span_id for the span active in ctx, if any
func traceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}
