// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

// Package simclock provides a deterministic [ctxtree.Clock] for tests. Time
// only moves when [Clock.Advance] is called, which runs every due callback in
// deadline order before returning. This makes deadline behavior, including
// first-cause-wins races between timers and explicit cancellation, exactly
// reproducible without sleeping.
package simclock

import (
	"cmp"
	"sync"
	"time"

	"github.com/addrummond/heap"

	"github.com/ctxtree/ctxtree"
)

// Clock is a simulated [ctxtree.Clock]. The zero value is ready to use and
// starts at time zero.
type Clock struct {
	mu      sync.Mutex
	now     time.Duration
	lastSeq uint64
	pending heap.Heap[timerEvent, heap.Min]
}

type timerEvent struct {
	at  time.Duration
	seq uint64
	t   *timer
}

func (a *timerEvent) Cmp(b *timerEvent) int {
	if c := cmp.Compare(a.at, b.at); c != 0 {
		return c
	}
	// Ties fire in scheduling order.
	return cmp.Compare(a.seq, b.seq)
}

type timer struct {
	clk     *Clock
	fn      func()
	stopped bool
	fired   bool
}

// New creates a simulated clock starting at time zero.
func New() *Clock {
	return &Clock{}
}

// Now returns the current simulated time as an offset from the clock's
// creation.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules fn to run once the simulated time has advanced by at
// least d. Callbacks never run spontaneously; they run during [Clock.Advance].
func (c *Clock) AfterFunc(d time.Duration, fn func()) ctxtree.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeq++
	t := &timer{clk: c, fn: fn}
	heap.PushOrderable(&c.pending, timerEvent{at: c.now + d, seq: c.lastSeq, t: t})
	return t
}

// Stop disarms the timer, reporting whether it prevented the callback from
// running.
func (t *timer) Stop() bool {
	c := t.clk
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves simulated time forward by d and synchronously runs every due
// callback in deadline order. Callbacks run without the clock's lock held, so
// they may schedule or stop other timers on the same clock.
func (c *Clock) Advance(d time.Duration) {
	if d < 0 {
		panic("cannot advance time backwards")
	}
	for {
		c.mu.Lock()
		target := c.now + d
		event, ok := heap.Peek(&c.pending)
		if !ok || event.at > target {
			c.now = target
			c.mu.Unlock()
			return
		}
		event, _ = heap.PopOrderable(&c.pending)
		// Jump to the event's due time so that callbacks observing Now see
		// the moment they were scheduled for. Events scheduled with a
		// non-positive delay are already due and do not move time backwards.
		if event.at > c.now {
			c.now = event.at
		}
		d = target - c.now
		t := event.t
		fire := !t.stopped
		t.fired = fire
		c.mu.Unlock()
		if fire {
			t.fn()
		}
	}
}
