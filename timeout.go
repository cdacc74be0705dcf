// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package ctxtree

import (
	"fmt"
	"time"
)

type timerCtx struct {
	cancelCtx
	d time.Duration
}

// WithTimeout returns a cancelable context whose signal additionally fires
// with [DeadlineExceeded] once d has elapsed on the system clock. In every
// other respect it behaves like [WithCancel]: explicit cancellation and
// parent propagation still apply, and whichever event reaches the signal
// first records the permanent cause.
//
// The timer is disarmed as soon as the signal fires by any means, so a
// canceled timeout context never leaves a pending timer behind. A context
// derived with a longer timeout than its parent's simply never reaches its
// own deadline: the parent's propagated firing arrives first and the local
// timer is disarmed, which makes the earlier deadline win without any
// explicit comparison of deadlines.
//
// If d is zero or negative the deadline has already passed and the returned
// context is canceled with [DeadlineExceeded] before WithTimeout returns.
//
// WithTimeout panics if parent is nil.
func WithTimeout(parent Context, d time.Duration) (Context, CancelFunc) {
	return WithTimeoutClock(parent, d, SystemClock())
}

// WithTimeoutClock is [WithTimeout] with an explicit [Clock]. It exists so
// that deadline behavior can be exercised under simulated time; production
// code should normally use WithTimeout.
//
// WithTimeoutClock panics if parent or clk is nil.
func WithTimeoutClock(parent Context, d time.Duration, clk Clock) (Context, CancelFunc) {
	if parent == nil {
		panic(nilParentPanic)
	}
	if clk == nil {
		panic("clock must be non-nil")
	}
	c := &timerCtx{
		cancelCtx: cancelCtx{parent: parent, signal: NewSignal()},
		d:         d,
	}
	wireParent(parent, c.signal)
	switch {
	case c.signal.Fired():
		// The parent had already fired, so the deadline is moot.
	case d <= 0:
		c.signal.Fire(DeadlineExceeded)
	default:
		timer := clk.AfterFunc(d, func() {
			c.signal.Fire(DeadlineExceeded)
		})
		c.signal.OnFire(func(error) {
			timer.Stop()
		})
	}
	return c, func() { c.signal.Fire(Canceled) }
}

func (c *timerCtx) String() string {
	return fmt.Sprintf("%s.WithTimeout(%v)", contextName(c.parent), c.d)
}
