// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package ctxtree

import (
	"time"
)

// A Clock schedules one-shot timer callbacks. [WithTimeout] uses
// [SystemClock]; [WithTimeoutClock] accepts any implementation, which lets
// tests drive deadlines deterministically with a simulated clock instead of
// sleeping.
type Clock interface {
	// AfterFunc arranges for fn to be called once after duration d and
	// returns a handle that can disarm it.
	AfterFunc(d time.Duration, fn func()) Timer
}

// A Timer is the owned handle of a pending callback scheduled through a
// [Clock]. Holding an explicit handle makes disarming a mandatory,
// observable step rather than something left to garbage collection.
type Timer interface {
	// Stop disarms the timer, reporting whether it prevented the callback
	// from running. Stopping an expired or already-stopped timer is a no-op.
	Stop() bool
}

type systemClock struct{}

// SystemClock returns the [Clock] backed by the runtime's real timers.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return systemTimer{t: time.AfterFunc(d, fn)}
}

type systemTimer struct {
	t *time.Timer
}

func (t systemTimer) Stop() bool {
	return t.t.Stop()
}
