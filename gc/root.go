package gc

import (
	"fmt"

	"github.com/fmstephe/twospace/internal/descriptor"
	"github.com/fmstephe/twospace/internal/slab"
)

// Root is an opaque, refcounted handle that survives across collections and
// across generation scopes. It contains no Go pointer -- just an index into
// its Heap's root table -- so a Root may itself be a field of a managed
// struct (the cyclic-root case, spec §8 scenario 3).
type Root struct {
	id uint64
}

// GCHandleKind marks Root as an allowed leaf for the pointer checker.
func (Root) GCHandleKind() {}

// RootFromScoped promotes a scoped handle to a Root: the referent now
// survives its scope closing and any number of collections, until every
// clone of the returned Root is released. Per spec §4.5, this is a
// three-way branch on the slot's existing status: an already-`Rooted` slot
// (e.g. two ScopedHandles sharing one address, as gc/fixtures_test.go's
// TwoCellList fixture demonstrates is a normal shape) shares the existing
// RootRecord rather than minting a second one that would orphan the first;
// a `Moved`/`Dropped` slot can only mean the caller held a ScopedHandle
// across a collection, which is a client bug the spec says to panic on.
func RootFromScoped[T any](s *Scope, h ScopedHandle[T]) (Root, error) {
	if h.addr == 0 {
		return Root{}, fmt.Errorf("gc: cannot root a zero-value ScopedHandle")
	}

	ih := s.heap.internal
	block := ih.BlockOf(h.addr)
	if block == nil {
		return Root{}, fmt.Errorf("gc: cannot root handle: address not owned by this heap")
	}

	switch status, ok := block.Status[h.addr]; {
	case ok && status.Kind == slab.StatusRooted:
		status.Root.RefCount++
		return Root{id: status.Root.ID}, nil

	case ok && status.Kind == slab.StatusMoved:
		panic("gc: RootFromScoped called on a ScopedHandle held across a collection (status Moved)")

	case ok && status.Kind == slab.StatusDropped:
		panic("gc: RootFromScoped called on a ScopedHandle held across a collection (status Dropped)")

	default: // no status entry: a plain, not-yet-rooted object
		id := ih.NextRootID()
		record := &slab.RootRecord{
			ID:         id,
			CurrentPtr: h.addr,
			Info:       descriptor.DescriptorFor[T](),
			RefCount:   1,
		}
		ih.Roots[id] = record
		block.Status[h.addr] = slab.ObjectStatus{Kind: slab.StatusRooted, Root: record}
		return Root{id: id}, nil
	}
}

// Clone increments r's refcount and returns r unchanged; the referent is now
// kept alive by one more outstanding reference.
func (r Root) Clone(s *Scope) Root {
	if rec, ok := s.heap.internal.Roots[r.id]; ok {
		rec.RefCount++
	}
	return r
}

// Release decrements r's refcount, dropping the root entirely (and
// un-rooting its current slot) once no clone remains. Using r again after
// its last Release is a bug the collector cannot detect.
func (r Root) Release(s *Scope) {
	ih := s.heap.internal
	rec, ok := ih.Roots[r.id]
	if !ok {
		return
	}

	rec.RefCount--
	if rec.RefCount > 0 {
		return
	}

	delete(ih.Roots, r.id)
	if block := ih.BlockOf(rec.CurrentPtr); block != nil {
		delete(block.Status, rec.CurrentPtr)
	}
}

// TypedRoot pairs a Root with the static type it was last known to hold,
// recovering the dereferenceable handle a bare Root gives up.
type TypedRoot[T any] struct {
	root Root
}

// NewTypedRoot recovers a TypedRoot from a bare Root, failing with
// ErrTypeMismatch if r's live descriptor doesn't match T.
func NewTypedRoot[T any](s *Scope, r Root) (TypedRoot[T], error) {
	rec, ok := s.heap.internal.Roots[r.id]
	if !ok {
		return TypedRoot[T]{}, fmt.Errorf("gc: root is not live: %w", ErrTypeMismatch)
	}
	if !rec.Info.Equal(descriptor.DescriptorFor[T]()) {
		return TypedRoot[T]{}, ErrTypeMismatch
	}
	return TypedRoot[T]{root: r}, nil
}

// Untyped discards the static type, returning the bare Root underneath.
func (t TypedRoot[T]) Untyped() Root {
	return t.root
}

// Clone is Root.Clone lifted to TypedRoot.
func (t TypedRoot[T]) Clone(s *Scope) TypedRoot[T] {
	return TypedRoot[T]{root: t.root.Clone(s)}
}

// Release is Root.Release lifted to TypedRoot.
func (t TypedRoot[T]) Release(s *Scope) {
	t.root.Release(s)
}

// Project resolves r to a dereferenceable ScopedHandle valid in s, failing
// if r is no longer live or its descriptor doesn't match T.
func Project[T any](s *Scope, r Root) (ScopedHandle[T], bool) {
	rec, ok := s.heap.internal.Roots[r.id]
	if !ok {
		return ScopedHandle[T]{}, false
	}
	if !rec.Info.Equal(descriptor.DescriptorFor[T]()) {
		return ScopedHandle[T]{}, false
	}
	return ScopedHandle[T]{addr: rec.CurrentPtr, epoch: s.heap.internal.Epoch}, true
}
