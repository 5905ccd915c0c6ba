package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "tasksync"

// StartBroadcastSpan starts a span covering one fan-out of an event.
func StartBroadcastSpan(ctx context.Context, eventName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "ws.broadcast",
		trace.WithAttributes(attribute.String("event.name", eventName)),
	)
}

// StartTaskSpan starts a span for a task mutation.
func StartTaskSpan(ctx context.Context, op, taskID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "task."+op,
		trace.WithAttributes(attribute.String("task.id", taskID)),
	)
}
