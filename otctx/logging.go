// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package otctx

import (
	"time"

	"go.uber.org/zap"

	"github.com/ctxtree/ctxtree"
)

// LoggedFuture creates a future whose creation and settlement are logged
// through the global zap logger, including timing information and the
// rejection cause when the future does not resolve.
func LoggedFuture[T any](
	ctx ctxtree.Context,
	operationName string,
	executor ctxtree.Executor[T],
) *ctxtree.Future[T] {
	start := time.Now()
	logStart(operationName)
	f := ctxtree.NewFuture(ctx, executor)
	logSettlement(operationName, start, f)
	return f
}

func logStart(operationName string) {
	zap.L().Debug("Starting future",
		zap.String("operation", operationName),
		zap.String("component", "otctx"))
}

func logSettlement[T any](operationName string, start time.Time, f *ctxtree.Future[T]) {
	f.OnSettle(func(_ T, err error) {
		// Resolve the logger at settlement time so that futures outliving a
		// zap.ReplaceGlobals call log through the current logger.
		logger := zap.L()
		duration := time.Since(start)
		if err != nil {
			logger.Error("Future rejected",
				zap.String("operation", operationName),
				zap.String("component", "otctx"),
				zap.Duration("duration", duration),
				zap.Error(err))
		} else {
			logger.Debug("Future resolved",
				zap.String("operation", operationName),
				zap.String("component", "otctx"),
				zap.Duration("duration", duration))
		}
	})
}

// LogCancellation logs the recorded cause when ctx is canceled. The returned
// stop function unregisters the hook; it reports false if ctx cannot be
// canceled at all.
func LogCancellation(ctx ctxtree.Context, operationName string) (stop func() bool) {
	return ctxtree.OnDone(ctx, func(cause error) {
		zap.L().Warn("Context canceled",
			zap.String("operation", operationName),
			zap.String("component", "otctx"),
			zap.Error(cause))
	})
}
