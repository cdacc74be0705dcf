// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package otctx

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ctxtree/ctxtree"
)

// MetricsFuture creates a future whose lifecycle is recorded as metrics:
// a count of futures created, a histogram of seconds from creation to
// settlement, and a count of rejections labeled with the rejection cause.
func MetricsFuture[T any](
	ctx ctxtree.Context,
	metricName string,
	executor ctxtree.Executor[T],
) *ctxtree.Future[T] {
	start := time.Now()
	meter := otel.GetMeterProvider().Meter("otctx")

	futureCounter, _ := meter.Int64Counter(metricName + ".count")
	futureCounter.Add(context.Background(), 1)

	f := ctxtree.NewFuture(ctx, executor)
	recordSettlement(metricName, start, f)
	return f
}

func recordSettlement[T any](metricName string, start time.Time, f *ctxtree.Future[T]) {
	meter := otel.GetMeterProvider().Meter("otctx")
	futureDuration, _ := meter.Float64Histogram(metricName + ".duration")
	rejectionCounter, _ := meter.Int64Counter(metricName + ".rejections")

	f.OnSettle(func(_ T, err error) {
		bg := context.Background()
		futureDuration.Record(bg, time.Since(start).Seconds())
		if err != nil {
			rejectionCounter.Add(bg, 1,
				metric.WithAttributes(attribute.String("cause", err.Error())))
		}
	})
}

// CountCancellations increments a counter labeled with the cancellation cause
// when ctx is canceled. The returned stop function unregisters the counter
// hook; it reports false if ctx cannot be canceled at all.
func CountCancellations(ctx ctxtree.Context, metricName string) (stop func() bool) {
	meter := otel.GetMeterProvider().Meter("otctx")
	counter, _ := meter.Int64Counter(metricName + ".cancellations")

	return ctxtree.OnDone(ctx, func(cause error) {
		counter.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("cause", cause.Error())))
	})
}
