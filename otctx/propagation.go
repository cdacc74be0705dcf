// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

// Package otctx provides OpenTelemetry and zap integration for the ctxtree
// cancellation tree. It enables transparent propagation of trace context
// through ctxtree value bindings and ties spans, metrics, and structured logs
// to the settlement of futures and the cancellation of contexts, without
// requiring users to thread observability concerns through their executors.
package otctx

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/ctxtree/ctxtree"
)

// spanContextKey is the value-binding key under which a trace context rides
// the ctxtree. It is a plain string because ctxtree restricts binding keys to
// comparable primitives; the package prefix keeps it out of the way of user
// keys.
const spanContextKey = "otctx.span-context"

// WithSpanContext binds sc to the tree so that spans created further down the
// chain are parented correctly. The binding behaves like any other ctxtree
// value: nearer bindings shadow farther ones, and cancellation state is
// untouched.
func WithSpanContext(parent ctxtree.Context, sc trace.SpanContext) (ctxtree.Context, error) {
	return ctxtree.WithValue(parent, spanContextKey, sc)
}

// SpanContextFrom returns the trace context bound nearest to ctx, or an
// invalid (zero) trace.SpanContext if none is bound.
func SpanContextFrom(ctx ctxtree.Context) trace.SpanContext {
	if sc, ok := ctx.Value(spanContextKey).(trace.SpanContext); ok {
		return sc
	}
	return trace.SpanContext{}
}
