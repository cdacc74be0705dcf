// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

package ctxtree

type constError string

func (e constError) Error() string {
	return string(e)
}

// Canceled is the cause recorded on a [Signal] when a context is explicitly
// canceled via its [CancelFunc] or when an ancestor's cancellation propagates
// to it.
const Canceled = constError("context canceled")

// DeadlineExceeded is the cause recorded on a [Signal] when a [WithTimeout]
// context's timer expires before any other cancellation reaches it.
const DeadlineExceeded = constError("context deadline exceeded")

// ErrInvalidKey is returned by [WithValue] when the supplied key is nil or
// not a comparable primitive. Use [errors.Is] to match it, since WithValue
// wraps it with detail about the offending key.
const ErrInvalidKey = constError("value key must be a primitive")
