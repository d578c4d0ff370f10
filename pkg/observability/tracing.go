package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing implements [LayoutHooks] with OpenTelemetry spans. Spans are
// recorded by whatever tracer provider the host installs; without one they
// are no-ops.
type Tracing struct {
	tracer trace.Tracer
}

// NewTracing returns a tracing hook using the global tracer provider.
func NewTracing() *Tracing {
	return &Tracing{tracer: otel.Tracer("supplychain.layout")}
}

func (t *Tracing) OnLayoutStart(ctx context.Context, algorithm string, nodeCount int, incremental bool) context.Context {
	ctx, _ = t.tracer.Start(ctx, "layout.Run", trace.WithAttributes(
		attribute.String("layout.algorithm", algorithm),
		attribute.Int("layout.nodes", nodeCount),
		attribute.Bool("layout.incremental", incremental),
	))
	return ctx
}

func (t *Tracing) OnLayoutComplete(ctx context.Context, _, outcome string, d time.Duration, err error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("layout.outcome", outcome),
		attribute.Int64("layout.duration_ms", d.Milliseconds()),
	)
	if err != nil && outcome == "failed" {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

var _ LayoutHooks = (*Tracing)(nil)
