// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package otctx

import (
	"time"

	"github.com/ctxtree/ctxtree"
)

// InstrumentedFuture combines tracing, metrics, and logging for a future into
// a single constructor. This provides a convenient way to apply all
// instrumentation at once; the operation name doubles as the metric name.
func InstrumentedFuture[T any](
	ctx ctxtree.Context,
	operationName string,
	executor ctxtree.Executor[T],
) *ctxtree.Future[T] {
	start := time.Now()
	span := startSpan(ctx, operationName)
	logStart(operationName)

	f := ctxtree.NewFuture(ctx, executor)

	// Settlement observers run in registration order: logging first, then
	// metrics, then the span end, so the span covers the other observers.
	logSettlement(operationName, start, f)
	recordSettlement(operationName, start, f)
	endSpanOnSettle(span, f)
	return f
}

// InstrumentedContext combines cancellation metrics and logging for a context
// into a single call. The returned stop function unregisters both hooks,
// reporting whether any observer was removed before running.
func InstrumentedContext(ctx ctxtree.Context, operationName string) (stop func() bool) {
	stopLog := LogCancellation(ctx, operationName)
	stopCount := CountCancellations(ctx, operationName)
	return func() bool {
		removedLog := stopLog()
		removedCount := stopCount()
		return removedLog || removedCount
	}
}
