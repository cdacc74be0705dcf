// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package ctxtree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ctxtree/ctxtree"
)

func TestWithValueLookupAndShadowing(t *testing.T) {
	chk := require.New(t)

	mid, err := ctxtree.WithValue(ctxtree.Background(), "k", "v1")
	chk.NoError(err)
	tail, err := ctxtree.WithValue(mid, "k", "v2")
	chk.NoError(err)

	chk.Equal("v2", tail.Value("k"), "nearest binding shadows farther ones")
	chk.Equal("v1", mid.Value("k"))
	chk.Nil(ctxtree.Background().Value("k"))

	chk.Nil(tail.Value("unbound"), "unbound keys resolve to nil at every node")
	chk.Nil(mid.Value("unbound"))
}

func TestWithValueKeysAreTypeSensitive(t *testing.T) {
	chk := require.New(t)

	ctx, err := ctxtree.WithValue(ctxtree.Background(), 1, "int")
	chk.NoError(err)
	chk.Equal("int", ctx.Value(1))
	chk.Nil(ctx.Value(int64(1)), "an int64 key does not match an int binding")
	chk.Nil(ctx.Value("1"))
}

func TestWithValueFalsyKeys(t *testing.T) {
	chk := require.New(t)

	for _, key := range []any{0, "", false} {
		ctx, err := ctxtree.WithValue(ctxtree.Background(), key, "bound")
		chk.NoError(err)
		chk.Equal("bound", ctx.Value(key))
	}
}

func TestWithValueInvalidKeys(t *testing.T) {
	chk := require.New(t)

	for _, key := range []any{
		nil,
		struct{ a int }{},
		[]string{"slice"},
		[2]int{1, 2},
		map[string]int{},
		func() {},
		make(chan int),
		new(int),
	} {
		ctx, err := ctxtree.WithValue(ctxtree.Background(), key, "v")
		chk.ErrorIs(err, ctxtree.ErrInvalidKey, "key %T", key)
		chk.Nil(ctx)
	}
}

func TestWithValueNilValueIsBindable(t *testing.T) {
	chk := require.New(t)

	ctx, err := ctxtree.WithValue(ctxtree.Background(), "k", nil)
	chk.NoError(err)
	chk.Nil(ctx.Value("k"))
}

func TestWithValueDelegatesCancellation(t *testing.T) {
	chk := require.New(t)

	parent, cancel := ctxtree.WithCancel(ctxtree.Background())
	ctx, err := ctxtree.WithValue(parent, "k", "v")
	chk.NoError(err)

	chk.Same(parent.Done(), ctx.Done(), "value nodes introduce no cancellation scope")
	chk.NoError(ctx.Err())

	cancel()
	chk.ErrorIs(ctx.Err(), ctxtree.Canceled)
	chk.Equal("v", ctx.Value("k"), "values survive cancellation")
}

func TestWithValueNilParentPanics(t *testing.T) {
	chk := require.New(t)
	chk.PanicsWithValue("cannot derive a context from a nil parent", func() {
		_, _ = ctxtree.WithValue(nil, "k", "v")
	})
}

func TestBackgroundIsInert(t *testing.T) {
	chk := require.New(t)
	ctx := ctxtree.Background()
	chk.NoError(ctx.Err())
	chk.Nil(ctx.Done())
	chk.Nil(ctx.Value("anything"))
}
