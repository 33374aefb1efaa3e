package gc

import (
	"errors"

	"github.com/fmstephe/twospace/internal/slab"
)

// ErrTypeMismatch is returned by NewTypedRoot when a Root's live descriptor
// doesn't match the type requested -- the spec's TypeMismatch. Project
// reports the same condition by returning ok == false.
var ErrTypeMismatch = errors.New("gc: type mismatch")

// ErrAllocationFailed is re-exported from the allocator for callers who
// only import gc -- the spec's AllocationFailed.
var ErrAllocationFailed = slab.ErrAllocationFailed

// ChecksumError is re-exported from the allocator -- the spec's
// ChecksumMismatch, recovered via errors.As from a recovered panic.
type ChecksumError = slab.ChecksumError

// DroppedObjectError is re-exported from the allocator -- the spec's
// DroppedObjectVisited, recovered via errors.As from a recovered panic.
type DroppedObjectError = slab.DroppedObjectError
