// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package ctxtree

// A Context is one node in a propagation tree. It carries cancellation state
// and optional request-scoped key/value data, and is immutable except for the
// act of cancellation, which mutates only its signal's internal state, never
// the tree shape.
//
// Build chains with [Background], [WithValue], [WithCancel], and
// [WithTimeout]. Each derived context wraps exactly one parent; parents never
// hold references to their children, so an abandoned child becomes
// unreachable without any parent-side bookkeeping.
type Context interface {
	// Err returns the terminal cancellation cause, or nil if the context has
	// not been canceled. Once non-nil the result never changes.
	Err() error

	// Done returns the context's cancellation signal, or nil for a context
	// that can never be canceled. A nil Done means "cannot be canceled",
	// which is distinct from "can be canceled but has not been".
	Done() *Signal

	// Value returns the value bound to key by the nearest [WithValue]
	// ancestor (or the node itself), or nil if no ancestor binds key.
	Value(key any) any
}

// A CancelFunc cancels the context it was returned with, recording [Canceled]
// as the cause. After the context's signal has fired for any reason, calling
// a CancelFunc has no further effect.
type CancelFunc func()

const nilParentPanic = "cannot derive a context from a nil parent"

type backgroundCtx struct{}

var background Context = backgroundCtx{}

// Background returns the terminal root context. It is never canceled, holds
// no values, and exists to anchor every chain.
func Background() Context {
	return background
}

func (backgroundCtx) Err() error        { return nil }
func (backgroundCtx) Done() *Signal     { return nil }
func (backgroundCtx) Value(key any) any { return nil }
func (backgroundCtx) String() string    { return "ctxtree.Background" }

type detachedCtx struct {
	parent Context
}

// WithoutCancel returns a context that keeps the parent's value bindings but
// does not propagate its cancellation: the returned context is never
// canceled, regardless of what happens to the parent. A common use is
// cleanup work that must run after the operation it belongs to has been
// canceled.
func WithoutCancel(parent Context) Context {
	if parent == nil {
		panic(nilParentPanic)
	}
	return &detachedCtx{parent: parent}
}

func (c *detachedCtx) Err() error { return nil }

func (c *detachedCtx) Done() *Signal { return nil }

func (c *detachedCtx) Value(key any) any { return c.parent.Value(key) }

func (c *detachedCtx) String() string { return contextName(c.parent) + ".WithoutCancel" }

// OnDone registers fn to run with the recorded cause when ctx is canceled.
// If ctx has already been canceled, fn runs immediately and synchronously.
// If ctx can never be canceled, fn never runs.
//
// The returned stop function unregisters fn, reporting whether it did so
// before fn was (or would have been) invoked. It returns false if ctx cannot
// be canceled.
func OnDone(ctx Context, fn ObserverFunc) (stop func() bool) {
	if ctx == nil {
		panic("context must be non-nil")
	}
	if fn == nil {
		panic("observer must be non-nil")
	}
	s := ctx.Done()
	if s == nil {
		return func() bool { return false }
	}
	return s.OnFire(fn)
}

// contextName renders a context for the String methods of derived variants.
func contextName(ctx Context) string {
	if s, ok := ctx.(interface{ String() string }); ok {
		return s.String()
	}
	return "unknownContext"
}
