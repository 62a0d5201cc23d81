package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingSink opens one span per chunk solve and records contradictions and
// rollbacks as span events.
type TracingSink struct {
	tracer trace.Tracer
}

// NewTracingSink uses the global tracer provider when tp is nil.
func NewTracingSink(tp trace.TracerProvider) *TracingSink {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &TracingSink{tracer: tp.Tracer("terraingen/wfc")}
}

func (t *TracingSink) SolveBegin(ctx context.Context, ev SolveEvent) context.Context {
	ctx, _ = t.tracer.Start(ctx, "wfc.Solve",
		trace.WithAttributes(
			attribute.String("run_id", ev.RunID),
			attribute.Int("chunk_x", ev.ChunkX),
			attribute.Int("chunk_y", ev.ChunkY),
		),
	)
	return ctx
}

func (t *TracingSink) SolveEnd(ctx context.Context, ev SolveEvent) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Int("iterations", ev.Iterations),
		attribute.Int("backtracks", ev.Backtracks),
	)
	if ev.Err != nil {
		span.RecordError(ev.Err)
		span.SetStatus(codes.Error, ev.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (t *TracingSink) Contradiction(ctx context.Context, ev SolveEvent) {
	trace.SpanFromContext(ctx).AddEvent("contradiction", trace.WithAttributes(cellAttrs(ev)...))
}

func (t *TracingSink) Rollback(ctx context.Context, ev SolveEvent) {
	trace.SpanFromContext(ctx).AddEvent("rollback", trace.WithAttributes(cellAttrs(ev)...))
}

func (t *TracingSink) ActiveChunks(int) {}
func (t *TracingSink) ChunkSaved()      {}
func (t *TracingSink) Shortlist(int)    {}

func cellAttrs(ev SolveEvent) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("x", ev.X),
		attribute.Int("y", ev.Y),
		attribute.Int("depth", ev.Depth),
	}
}
