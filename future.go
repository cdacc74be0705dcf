// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package ctxtree

import (
	"sync"
)

// An Executor produces the eventual value of a [Future]. It is invoked
// synchronously by [NewFuture] and receives three capabilities:
//
//   - resolve settles the future successfully with a value
//   - reject settles the future with an error
//   - onSignal registers a cleanup callback on the future's bound context,
//     sparing the executor from re-deriving the context's signal itself; the
//     callback never runs if the context cannot be canceled
//
// The first call to resolve or reject wins; all later calls, including the
// rejection injected when the bound context is canceled, are no-ops. ctxtree
// never schedules the executor's work: an executor that needs to run
// asynchronously spawns its own goroutine and the capabilities are safe to
// call from it.
type Executor[T any] = func(resolve func(T), reject func(error), onSignal func(ObserverFunc))

// A Future is an asynchronous result container bound to a [Context]. If the
// context's signal fires before the future settles, the future rejects with
// the recorded cause. If the future settles first, the later firing has no
// observable effect on it. A Future settles exactly once.
//
// A Future must be created with [NewFuture], [Resolved], or [Rejected].
type Future[T any] struct {
	mu       sync.Mutex
	settled  bool
	value    T
	err      error
	done     chan struct{}
	unbind   func() bool
	onSettle []func(T, error)
}

// NewFuture creates a [Future] bound to ctx and synchronously invokes the
// executor. If ctx has already been canceled, the future is rejected with the
// recorded cause before the executor runs, and the executor's own resolve and
// reject become no-ops.
//
// The observer the future registers on the context is removed as soon as the
// future settles, so futures that complete normally leave nothing behind on a
// long-lived context.
//
// NewFuture panics if ctx or executor is nil.
func NewFuture[T any](ctx Context, executor Executor[T]) *Future[T] {
	if ctx == nil {
		panic("context must be non-nil")
	}
	if executor == nil {
		panic("executor must be non-nil")
	}
	f := &Future[T]{done: make(chan struct{})}
	onSignal := func(fn ObserverFunc) {
		if fn == nil {
			panic("observer must be non-nil")
		}
	}
	if s := ctx.Done(); s != nil {
		onSignal = func(fn ObserverFunc) {
			if fn == nil {
				panic("observer must be non-nil")
			}
			s.OnFire(fn)
		}
		remove := s.OnFire(func(cause error) {
			var zero T
			f.settle(zero, cause)
		})
		f.bindRemoval(remove)
	}
	executor(f.resolve, f.reject, onSignal)
	return f
}

// Resolved returns a [Future] that has already settled successfully with v.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	f.resolve(v)
	return f
}

// Rejected returns a [Future] that has already settled with err.
// It panics if err is nil.
func Rejected[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	f.reject(err)
	return f
}

func (f *Future[T]) resolve(v T) {
	f.settle(v, nil)
}

func (f *Future[T]) reject(err error) {
	if err == nil {
		panic("reject requires a non-nil error")
	}
	var zero T
	f.settle(zero, err)
}

func (f *Future[T]) settle(v T, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	f.value = v
	f.err = err
	unbind := f.unbind
	f.unbind = nil
	observers := f.onSettle
	f.onSettle = nil
	close(f.done)
	f.mu.Unlock()
	if unbind != nil {
		unbind()
	}
	for _, fn := range observers {
		fn(v, err)
	}
}

// OnSettle registers a one-shot observer invoked with the future's value and
// error when it settles. Observers run synchronously on the goroutine that
// settles the future, in registration order; if the future has already
// settled, fn runs immediately. OnSettle panics if fn is nil.
func (f *Future[T]) OnSettle(fn func(value T, err error)) {
	if fn == nil {
		panic("observer must be non-nil")
	}
	f.mu.Lock()
	if f.settled {
		v, err := f.value, f.err
		f.mu.Unlock()
		fn(v, err)
		return
	}
	f.onSettle = append(f.onSettle, fn)
	f.mu.Unlock()
}

// bindRemoval records the context-observer removal hook, running it
// immediately if the future settled while the observer was being registered.
func (f *Future[T]) bindRemoval(remove func() bool) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		remove()
		return
	}
	f.unbind = remove
	f.mu.Unlock()
}

// Done returns a channel that is closed once the future has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the future has settled.
func (f *Future[T]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Get blocks until the future settles and returns its value and error.
// After settlement both are permanent, so repeated calls return the same
// results without blocking.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.value, f.err
}

// TryGet returns the settled value, its error, and true if the future has
// settled. It returns zero values and false otherwise, without blocking.
func (f *Future[T]) TryGet() (value T, err error, ok bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Then returns a future that settles with fn applied to f's value once f
// resolves. If f rejects, fn is not called and the returned future rejects
// with the same error. Then adds no cancellation behavior of its own: the
// race against the bound context was already decided by f.
//
// Then is a package-level function rather than a method so that fn can change
// the result type. It panics if f or fn is nil.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	if f == nil {
		panic("future must be non-nil")
	}
	if fn == nil {
		panic("continuation must be non-nil")
	}
	d := &Future[U]{done: make(chan struct{})}
	f.OnSettle(func(v T, err error) {
		if err != nil {
			d.reject(err)
			return
		}
		u, err := fn(v)
		if err != nil {
			d.reject(err)
			return
		}
		d.resolve(u)
	})
	return d
}

// Catch returns a future that settles with fn applied to f's error once f
// rejects, allowing recovery to a value or substitution of a different
// error. If f resolves, fn is not called and the value passes through
// unchanged. Catch panics if fn is nil.
func (f *Future[T]) Catch(fn func(error) (T, error)) *Future[T] {
	if fn == nil {
		panic("continuation must be non-nil")
	}
	d := &Future[T]{done: make(chan struct{})}
	f.OnSettle(func(v T, err error) {
		if err == nil {
			d.resolve(v)
			return
		}
		v, err = fn(err)
		if err != nil {
			d.reject(err)
			return
		}
		d.resolve(v)
	})
	return d
}

// Finally returns a future that settles exactly as f does, after running fn.
// fn observes neither value nor error and cannot alter the outcome. Finally
// panics if fn is nil.
func (f *Future[T]) Finally(fn func()) *Future[T] {
	if fn == nil {
		panic("continuation must be non-nil")
	}
	d := &Future[T]{done: make(chan struct{})}
	f.OnSettle(func(v T, err error) {
		fn()
		d.settle(v, err)
	})
	return d
}
