package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/keboola/pipeline-trigger/internal/pkg/ctxattr"
)

const instrumentationName = "github.com/keboola/pipeline-trigger"

type Tracer interface {
	Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, Span)
}

type tracer struct {
	tracer trace.Tracer
}

func NewTracer(provider trace.TracerProvider) Tracer {
	return &tracer{tracer: provider.Tracer(instrumentationName)}
}

// NewGlobalTracer uses the globally registered provider, it is no-op if no provider is registered.
func NewGlobalTracer() Tracer {
	return NewTracer(otel.GetTracerProvider())
}

func NewNopTracer() Tracer {
	return NewTracer(noop.NewTracerProvider())
}

// Start a span, attributes stored in the context by the ctxattr package are added to it.
func (t *tracer) Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, Span) {
	if attrs := ctxattr.Attributes(ctx); attrs.Len() > 0 {
		opts = append(opts, trace.WithAttributes(attrs.ToSlice()...))
	}
	ctx, s := t.tracer.Start(ctx, spanName, opts...)
	return ctx, &span{span: s}
}
