package slab

import (
	"unsafe"

	"github.com/fmstephe/twospace/internal/descriptor"
)

// StatusKind tags the variant held by an ObjectStatus.
type StatusKind uint8

const (
	// StatusMoved means the object has already been evacuated; Moved
	// holds the forwarding address.
	StatusMoved StatusKind = iota + 1
	// StatusRooted means at least one root handle is outstanding for
	// this slot; Root points at the shared record.
	StatusRooted
	// StatusDropped means the destructor has already run and the slot
	// is poisoned. Any further visit is a bug.
	StatusDropped
)

// ObjectStatus is the tagged variant the spec calls ObjectStatus. A block's
// status table only ever holds entries for slots that have become rooted,
// moved or dropped -- plain unrooted objects have no entry at all.
type ObjectStatus struct {
	Kind  StatusKind
	Moved uintptr
	Root  *RootRecord
}

// RootRecord is the shared, refcounted record behind every root handle
// pointing at the same object. CurrentPtr is rewritten in place by the
// evacuator so that every outstanding Root sees the new address after a
// collection without needing to touch the Root values themselves.
type RootRecord struct {
	ID          uint64
	CurrentPtr  uintptr
	Info        *descriptor.Info
	RefCount    int
	MarkerSeen  bool
	TracedCount int
}

// TraceFn is the descriptor's own trace function, used by the evacuator
// when seeding the work stack from this record (spec §4.6 step 3).
func (r *RootRecord) TraceFn() func(unsafe.Pointer, *descriptor.WorkList) {
	return r.Info.TraceFn
}
