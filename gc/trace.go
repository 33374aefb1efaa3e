package gc

import "github.com/fmstephe/twospace/internal/descriptor"

// Trace enqueues h's referent for visiting during the current collection.
// Call it once per reachable ScopedHandle field from within a type's own
// TraceGC method; see the package doc for the full contract.
func Trace[T any](w *WorkList, h *ScopedHandle[T]) {
	if h.addr == 0 {
		return
	}
	w.Push(descriptor.TracePoint{
		Slot:      &h.addr,
		EpochSlot: &h.epoch,
		TraceFn:   descriptor.DescriptorFor[T]().TraceFn,
	})
}
