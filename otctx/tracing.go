// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package otctx

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ctxtree/ctxtree"
)

// TracedFuture creates a future whose lifetime is covered by a span with the
// given operation name. The span starts before the executor is invoked and
// ends when the future settles; a rejection, including one injected by the
// bound context's cancellation, is recorded on the span with an error status.
//
// If the tree carries a trace context (see [WithSpanContext]), the span is
// parented from it.
func TracedFuture[T any](
	ctx ctxtree.Context,
	operationName string,
	executor ctxtree.Executor[T],
) *ctxtree.Future[T] {
	span := startSpan(ctx, operationName)
	f := ctxtree.NewFuture(ctx, executor)
	endSpanOnSettle(span, f)
	return f
}

func startSpan(ctx ctxtree.Context, operationName string) trace.Span {
	tracer := otel.Tracer("otctx")

	// Parent the span from any trace context riding the tree. The otel API
	// exchanges parentage through a context.Context, so build a throwaway
	// one; ctxtree contexts never cross this boundary.
	octx := context.Background()
	if sc := SpanContextFrom(ctx); sc.IsValid() {
		octx = trace.ContextWithRemoteSpanContext(octx, sc)
	}
	_, span := tracer.Start(octx, operationName)
	return span
}

func endSpanOnSettle[T any](span trace.Span, f *ctxtree.Future[T]) {
	f.OnSettle(func(_ T, err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	})
}
