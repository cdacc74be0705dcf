// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package ctxtree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ctxtree/ctxtree"
)

func TestWithCancelPropagatesToDescendants(t *testing.T) {
	chk := require.New(t)

	c1, cancel := ctxtree.WithCancel(ctxtree.Background())
	c2, _ := ctxtree.WithCancel(c1)

	chk.NoError(c1.Err())
	chk.NoError(c2.Err())
	chk.False(c2.Done().Fired())

	cancel()

	chk.ErrorIs(c1.Err(), ctxtree.Canceled)
	chk.ErrorIs(c2.Err(), ctxtree.Canceled)
	chk.True(c2.Done().Fired())
}

func TestWithCancelDeepChain(t *testing.T) {
	chk := require.New(t)

	head, cancel := ctxtree.WithCancel(ctxtree.Background())
	chain := []ctxtree.Context{head}
	for range 10 {
		ctx, _ := ctxtree.WithCancel(chain[len(chain)-1])
		chain = append(chain, ctx)
	}

	cancel()
	for i, ctx := range chain {
		chk.ErrorIs(ctx.Err(), ctxtree.Canceled, "node %d", i)
		chk.True(ctx.Done().Fired(), "node %d", i)
	}
}

func TestWithCancelIsIdempotent(t *testing.T) {
	chk := require.New(t)

	ctx, cancel := ctxtree.WithCancel(ctxtree.Background())
	cancel()
	cancel()
	chk.ErrorIs(ctx.Err(), ctxtree.Canceled)
}

func TestWithCancelDoesNotAffectParentOrSiblings(t *testing.T) {
	chk := require.New(t)

	parent, _ := ctxtree.WithCancel(ctxtree.Background())
	child, cancelChild := ctxtree.WithCancel(parent)
	sibling, _ := ctxtree.WithCancel(parent)

	cancelChild()

	chk.ErrorIs(child.Err(), ctxtree.Canceled)
	chk.NoError(parent.Err())
	chk.NoError(sibling.Err())
}

func TestWithCancelFirstCauseWins(t *testing.T) {
	chk := require.New(t)

	parent, cancelParent := ctxtree.WithCancel(ctxtree.Background())
	child, cancelChild := ctxtree.WithCancel(parent)

	cancelChild()
	cancelParent()

	// The child fired on its own before the parent's propagation arrived.
	chk.ErrorIs(child.Err(), ctxtree.Canceled)
	chk.ErrorIs(parent.Err(), ctxtree.Canceled)
}

func TestWithCancelPropagatesParentCauseUnchanged(t *testing.T) {
	chk := require.New(t)

	parent, _ := ctxtree.WithTimeoutClock(ctxtree.Background(), 0, ctxtree.SystemClock())
	child, _ := ctxtree.WithCancel(parent)

	// The parent fired with DeadlineExceeded before the child was derived;
	// the child inherits that exact cause, not Canceled.
	chk.ErrorIs(child.Err(), ctxtree.DeadlineExceeded)
}

func TestWithCancelFromAlreadyCanceledParent(t *testing.T) {
	chk := require.New(t)

	parent, cancel := ctxtree.WithCancel(ctxtree.Background())
	cancel()

	child, _ := ctxtree.WithCancel(parent)
	chk.ErrorIs(child.Err(), ctxtree.Canceled)
	chk.True(child.Done().Fired())
}

func TestWithCancelRemovesParentWiringOnOwnFire(t *testing.T) {
	chk := require.New(t)

	parent, cancelParent := ctxtree.WithCancel(ctxtree.Background())

	// A child that fires on its own must unhook itself from the parent;
	// observers registered on the parent afterwards still fire in
	// registration order, which would be violated if stale child wiring
	// lingered and panicked or re-fired.
	child, cancelChild := ctxtree.WithCancel(parent)
	cancelChild()

	fired := false
	parent.Done().OnFire(func(cause error) {
		fired = true
		chk.ErrorIs(cause, ctxtree.Canceled)
	})
	cancelParent()

	chk.True(fired)
	chk.ErrorIs(child.Err(), ctxtree.Canceled)
}

func TestWithCancelValueLookupDelegates(t *testing.T) {
	chk := require.New(t)

	base, err := ctxtree.WithValue(ctxtree.Background(), "k", "v")
	chk.NoError(err)
	ctx, cancel := ctxtree.WithCancel(base)
	defer cancel()

	chk.Equal("v", ctx.Value("k"))
}

func TestWithCancelNilParentPanics(t *testing.T) {
	chk := require.New(t)
	chk.PanicsWithValue("cannot derive a context from a nil parent", func() {
		_, _ = ctxtree.WithCancel(nil)
	})
}

func TestWithoutCancelDetaches(t *testing.T) {
	chk := require.New(t)

	base, err := ctxtree.WithValue(ctxtree.Background(), "k", "v")
	chk.NoError(err)
	parent, cancel := ctxtree.WithCancel(base)

	detached := ctxtree.WithoutCancel(parent)
	chk.Nil(detached.Done())

	cancel()

	chk.ErrorIs(parent.Err(), ctxtree.Canceled)
	chk.NoError(detached.Err())
	chk.Equal("v", detached.Value("k"), "value lookup survives detachment")

	// Deriving a cancelable node below the detachment starts a fresh scope.
	child, _ := ctxtree.WithCancel(detached)
	chk.NoError(child.Err())
}

func TestOnDone(t *testing.T) {
	chk := require.New(t)

	ctx, cancel := ctxtree.WithCancel(ctxtree.Background())
	var got error
	stop := ctxtree.OnDone(ctx, func(cause error) { got = cause })

	cancel()
	chk.ErrorIs(got, ctxtree.Canceled)
	chk.False(stop())
}

func TestOnDoneStopBeforeFire(t *testing.T) {
	chk := require.New(t)

	ctx, cancel := ctxtree.WithCancel(ctxtree.Background())
	ran := false
	stop := ctxtree.OnDone(ctx, func(error) { ran = true })

	chk.True(stop())
	cancel()
	chk.False(ran)
}

func TestOnDoneNonCancelableContext(t *testing.T) {
	chk := require.New(t)

	stop := ctxtree.OnDone(ctxtree.Background(), func(error) {
		chk.Fail("must never run on a non-cancelable context")
	})
	chk.False(stop())
}
