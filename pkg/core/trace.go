package core

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation scope of reconciler spans.
const TracerName = "github.com/go-drift/vdom/pkg/core"

// WithTracerProvider records a span for every root render, root update,
// root unmount and event dispatch.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Reconciler) {
		if tp != nil {
			r.tracer = tp.Tracer(TracerName)
		}
	}
}

func defaultTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(TracerName)
}

// span starts a span and returns the function that ends it with err.
func (r *Reconciler) span(name string, attrs ...attribute.KeyValue) func(err error) {
	_, span := r.tracer.Start(context.Background(), name, trace.WithAttributes(attrs...))
	return func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
