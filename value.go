// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package ctxtree

import (
	"fmt"
	"reflect"
)

type valueCtx struct {
	parent Context
	key    any
	val    any
}

// WithValue returns a context with an immutable binding of key to val layered
// over parent. The new context introduces no cancellation scope of its own:
// Err and Done delegate to the parent unchanged.
//
// Keys must be comparable primitives (strings, booleans, integers, floats, or
// complex numbers), so that value identity under simple equality is
// unambiguous. Falsy primitives such as 0, "", and false are valid keys. A
// nil or structural key (struct, map, slice, array, func, chan, pointer)
// fails with an error matching [ErrInvalidKey], and no context is created.
//
// A binding nearer the querying node shadows farther bindings for the same
// key. val may be any value, including nil.
//
// WithValue panics if parent is nil.
func WithValue(parent Context, key, val any) (Context, error) {
	if parent == nil {
		panic(nilParentPanic)
	}
	if err := vetKey(key); err != nil {
		return nil, err
	}
	return &valueCtx{parent: parent, key: key, val: val}, nil
}

func vetKey(key any) error {
	if key == nil {
		return fmt.Errorf("%w: key is nil", ErrInvalidKey)
	}
	switch reflect.TypeOf(key).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return nil
	}
	return fmt.Errorf("%w: %T is not a primitive type", ErrInvalidKey, key)
}

func (c *valueCtx) Err() error {
	return c.parent.Err()
}

func (c *valueCtx) Done() *Signal {
	return c.parent.Done()
}

func (c *valueCtx) Value(key any) any {
	if key == c.key {
		return c.val
	}
	return c.parent.Value(key)
}

func (c *valueCtx) String() string {
	return fmt.Sprintf("%s.WithValue(%v)", contextName(c.parent), c.key)
}
