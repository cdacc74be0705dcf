// Copyright (c) the ctxtree authors. All rights reserved.
// Licensed under the MIT License.

// Package ctxtree provides a tree of linked execution contexts that carry
// cancellation state, deadlines, and request-scoped key/value data. Each
// [Context] wraps exactly one parent; cancellation flows from parent to
// child, so canceling a node cancels every node derived from it but never
// its parent or siblings. Value lookup flows the other way, walking from the
// querying node toward the root and returning the nearest binding.
//
// Propagation is built on [Signal], a one-shot observable flag with a
// permanent cause. A child wires an observer onto its parent's signal at
// construction and removes that observer as soon as its own signal fires,
// so a long-lived parent does not accumulate observers from short-lived
// children. The cause recorded at firing time ([Canceled] or
// [DeadlineExceeded]) is permanent: later cancellations, propagated firings,
// and timer expiries are all no-ops.
//
// The package also provides [Future], an asynchronous result container bound
// to a context. If the context's signal fires before the future settles, the
// future rejects with the recorded cause; if the future settles first, the
// firing has no observable effect. ctxtree never schedules the wrapped work
// itself, it only decides when that work must be abandoned.
package ctxtree
