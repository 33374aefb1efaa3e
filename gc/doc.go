// Copyright 2024 Francis Michael Stephens. All rights reserved.  Use of this
// source code is governed by an MIT license that can be found in the LICENSE
// file.

// # Usage
//
// Package gc is a thread-confined, two-space copying collector for
// interpreter-managed values. Where the offheap package this module started
// from lets you allocate pointerless Go values in unmanaged memory and free
// them by hand, gc goes one step further: it moves live objects for you,
// following pointers between them (its own ScopedHandle/Root types, not raw
// Go pointers) and reclaiming anything unreachable in one pass.
//
// A Heap is the per-goroutine nursery. Entering a generation scope gives you
// a place to allocate short-lived handles:
//
//	heap := gc.NewHeap()
//	scope := heap.EnterGeneration()
//	h, err := gc.Alloc(scope, 42)
//	i := h.Value(scope)
//	println(*i)
//
// A ScopedHandle is only guaranteed valid until the next collection runs
// without that handle having been reachable from a root. A collection keeps
// a handle valid only when it retraces that handle itself, i.e. a handle
// field inside a managed value reachable from a root; any other copy (a
// handle held in a local variable, say) goes stale even if its referent
// survived the collection. To
// keep a value alive across collections and across generations regardless
// of reachability through any particular scope, root it:
//
//	root, err := gc.RootFromScoped(scope, h)
//	defer root.Release(scope)
//
// A rooted value's address is rewritten every time a collection moves it;
// Root always resolves to wherever the object currently lives. A Root can be
// recovered as a typed, dereferenceable handle again in a later generation:
//
//	typed, err := gc.NewTypedRoot[int](scope, root)
//	back, ok := gc.Project[int](scope, typed.Untyped())
//
// Collections are never implicit. Call CollectGarbage when you know no
// scoped handle is currently held, or MaybeCollectGarbage to run one only
// once the heap has grown past its growth-heuristic threshold:
//
//	gc.CollectGarbage(scope)
//
// # Trace contract for user-defined types
//
// Any type embedding a ScopedHandle must implement Tracer so the collector
// can find that handle during a collection:
//
//	type Node struct {
//		Left, Right gc.ScopedHandle[Node]
//	}
//
//	func (n *Node) TraceGC(w *gc.WorkList) {
//		gc.Trace(w, &n.Left)
//		gc.Trace(w, &n.Right)
//	}
//
// Call Trace exactly once per reachable handle field. Fields that
// transitively contain no handles (ints, fixed-size byte arrays, arrays of
// primitives) need no trace call at all.
//
// # What may be managed
//
// A managed type may contain primitives, arrays of primitives, and
// ScopedHandle/Root fields. It must never contain a raw Go pointer, slice,
// map, string, channel, interface or func value: any of those would be
// invisible to this collector (their payload being a second, Go-GC-managed
// allocation the evacuator never touches), exactly the same restriction the
// offheap package places on anything it stores in unmanaged memory.
// DescriptorFor enforces this the first time a type is used and panics on
// violation.
//
// # Memory model
//
// A Heap, and every Scope/ScopedHandle/Root derived from it, must be
// confined to a single goroutine. Nothing about this package is safe for
// concurrent use from more than one goroutine at a time -- see
// SPEC_FULL.md §5 for why, and what the teacher's offheap package does
// differently and why that isn't available here.
package gc
