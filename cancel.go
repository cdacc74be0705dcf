// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package ctxtree

type cancelCtx struct {
	parent Context
	signal *Signal
}

// WithCancel returns a context that owns a new [Signal] and a [CancelFunc]
// that fires it with [Canceled]. The signal also fires, with the same cause
// the parent recorded, when the parent's own signal fires; whichever reaches
// the signal first wins, and the loser becomes a no-op.
//
// The propagation wiring registered on the parent is removed as soon as the
// returned context's signal fires for any reason, so a long-lived parent
// does not accumulate observers from short-lived children. Calling the
// CancelFunc as soon as the context is no longer needed releases that wiring
// promptly; a deferred call typically follows construction.
//
// WithCancel panics if parent is nil.
func WithCancel(parent Context) (Context, CancelFunc) {
	if parent == nil {
		panic(nilParentPanic)
	}
	c := &cancelCtx{parent: parent, signal: NewSignal()}
	wireParent(parent, c.signal)
	return c, func() { c.signal.Fire(Canceled) }
}

// wireParent forwards the parent's firing to the child signal and removes the
// forwarding observer once the child fires for any reason. If the parent has
// already fired, the child fires immediately, before wireParent returns. A
// parent without a signal needs no wiring at all.
func wireParent(parent Context, child *Signal) {
	ps := parent.Done()
	if ps == nil {
		return
	}
	removeForward := ps.OnFire(func(cause error) {
		child.Fire(cause)
	})
	child.OnFire(func(error) {
		removeForward()
	})
}

func (c *cancelCtx) Err() error {
	return c.signal.Cause()
}

func (c *cancelCtx) Done() *Signal {
	return c.signal
}

func (c *cancelCtx) Value(key any) any {
	return c.parent.Value(key)
}

func (c *cancelCtx) String() string {
	return contextName(c.parent) + ".WithCancel"
}
