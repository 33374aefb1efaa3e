package gc

import (
	"github.com/fmstephe/twospace/internal/descriptor"
	"github.com/fmstephe/twospace/internal/slab"
)

// ScopedHandle is a typed reference to a managed value, for use within the
// Scope that produced it. It goes stale at the next collection unless that
// collection retraces it; closing the scope does not invalidate it. It
// contains no Go pointer, so it may itself be a field of another managed
// struct (spec §4.4).
type ScopedHandle[T any] struct {
	addr  uintptr
	epoch uint64
}

// GCHandleKind marks ScopedHandle as an allowed leaf for the pointer
// checker -- see internal/descriptor/pointer_checker.go.
func (ScopedHandle[T]) GCHandleKind() {}

// Alloc carves a fresh, zeroed slot for T out of s's heap and copies value
// into it, returning a handle valid until a collection runs.
func Alloc[T any](s *Scope, value T) (ScopedHandle[T], error) {
	desc := descriptor.DescriptorFor[T]()
	addr, err := s.heap.internal.AllocateSlot(desc)
	if err != nil {
		return ScopedHandle[T]{}, err
	}
	*(*T)(slab.PointerOf(addr)) = value
	return ScopedHandle[T]{addr: addr, epoch: s.heap.internal.Epoch}, nil
}

// Value dereferences h, panicking if h has outlived s's current epoch (a
// collection ran since h was minted or last retraced).
func (h ScopedHandle[T]) Value(s *Scope) *T {
	if h.addr == 0 {
		panic("gc: dereferenced a zero-value ScopedHandle")
	}
	if h.epoch != s.heap.internal.Epoch {
		panic("gc: scoped handle used after a collection ran")
	}
	return (*T)(slab.PointerOf(h.addr))
}

// Deref is the free-function form of ScopedHandle.Value, for call sites
// that prefer it.
func Deref[T any](s *Scope, h ScopedHandle[T]) *T {
	return h.Value(s)
}

// IsZero reports whether h was never assigned (the zero ScopedHandle),
// distinct from a handle that has simply gone stale.
func (h ScopedHandle[T]) IsZero() bool {
	return h.addr == 0
}
