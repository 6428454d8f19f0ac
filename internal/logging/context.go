package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Context key types
type sessionCtxKey struct{}
type turnCtxKey struct{}

// WithSessionID attaches a session identifier to the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sessionID)
}

// SessionIDFromContext returns the session identifier, or "".
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionCtxKey{}).(string)
	return id
}

// WithTurnID attaches a turn identifier to the context.
func WithTurnID(ctx context.Context, turnID string) context.Context {
	return context.WithValue(ctx, turnCtxKey{}, turnID)
}

// TurnIDFromContext returns the turn identifier, or "".
func TurnIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(turnCtxKey{}).(string)
	return id
}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 4)

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}

	if sessionID := SessionIDFromContext(ctx); sessionID != "" {
		fields = append(fields, zap.String("session.id", sessionID))
	}

	if turnID := TurnIDFromContext(ctx); turnID != "" {
		fields = append(fields, zap.String("turn.id", turnID))
	}

	return fields
}
