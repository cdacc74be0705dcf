// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package ctxtree

import (
	"sync"

	"github.com/gammazero/deque"
)

// An ObserverFunc is a callback registered on a [Signal] with
// [Signal.OnFire]. It receives the cause the signal fired with and is invoked
// at most once.
type ObserverFunc = func(cause error)

// A Signal is a one-shot observable flag with an attached cause. It is the
// primitive underlying all cancellation in this package: every cancelable
// [Context] owns exactly one Signal, and propagation from parent to child is
// nothing more than an observer on the parent's Signal firing the child's.
//
// A Signal fires at most once and the cause recorded at that moment is
// permanent. Observers are invoked exactly once each, in registration order,
// and the observer list is cleared as part of firing, so a fired Signal holds
// no references to its former observers.
//
// The zero value of Signal is an unfired signal ready for use.
//
// All methods are safe for concurrent use. Observers are invoked without any
// internal lock held, so an observer may freely register or remove other
// observers on the same Signal, including firing other Signals that loop
// back to this one.
type Signal struct {
	mu        sync.Mutex
	fired     bool
	cause     error
	lastID    uint64
	observers deque.Deque[observer]
	done      chan struct{}
}

type observer struct {
	id uint64
	fn ObserverFunc
}

// NewSignal creates a new unfired [Signal]. It is equivalent to new(Signal)
// and exists for symmetry with the other constructors in this package.
func NewSignal() *Signal {
	return &Signal{}
}

// Fire records the cause, flips the signal to its fired state, and invokes
// every registered observer in registration order. Firing an already-fired
// signal is a no-op: the original cause is preserved and no observer runs
// again. Fire panics if cause is nil, since a fired signal without a cause
// would be indistinguishable from an unfired one through [Signal.Cause].
//
// Observers are invoked synchronously, before Fire returns.
func (s *Signal) Fire(cause error) {
	if cause == nil {
		panic("cause must be non-nil")
	}
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		return
	}
	s.fired = true
	s.cause = cause
	// Drain the observer list under the lock but invoke the callbacks after
	// releasing it, so that observers can re-enter this Signal (e.g. a child
	// context removing its propagation wiring).
	observers := make([]ObserverFunc, 0, s.observers.Len())
	for s.observers.Len() > 0 {
		observers = append(observers, s.observers.PopFront().fn)
	}
	if s.done != nil {
		close(s.done)
	}
	s.mu.Unlock()
	for _, fn := range observers {
		fn(cause)
	}
}

// OnFire registers a one-shot observer. If the signal has already fired, fn
// is invoked immediately and synchronously with the recorded cause instead of
// being queued; registration after firing is never silently dropped.
//
// The returned function removes the observer, reporting whether it did so
// before the observer was (or would have been) invoked. Removal is idempotent
// and is a no-op once the signal has fired.
//
// OnFire panics if fn is nil.
func (s *Signal) OnFire(fn ObserverFunc) (remove func() bool) {
	if fn == nil {
		panic("observer must be non-nil")
	}
	s.mu.Lock()
	if s.fired {
		cause := s.cause
		s.mu.Unlock()
		fn(cause)
		return func() bool { return false }
	}
	s.lastID++
	id := s.lastID
	s.observers.PushBack(observer{id: id, fn: fn})
	s.mu.Unlock()
	return func() bool {
		return s.removeObserver(id)
	}
}

func (s *Signal) removeObserver(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.observers.Index(func(o observer) bool { return o.id == id })
	if i < 0 {
		return false
	}
	s.observers.Remove(i)
	return true
}

// Fired reports whether the signal has fired.
func (s *Signal) Fired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}

// Cause returns the cause the signal fired with, or nil if it has not fired.
func (s *Signal) Cause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

// Done returns a channel that is closed when the signal fires. It allows a
// Signal to participate in select statements alongside ordinary Go channels;
// callers that only need a callback should prefer [Signal.OnFire]. The
// channel is allocated lazily but every call returns the same channel.
func (s *Signal) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		s.done = make(chan struct{})
		if s.fired {
			close(s.done)
		}
	}
	return s.done
}
