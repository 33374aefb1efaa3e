package gc

import "github.com/fmstephe/twospace/internal/descriptor"

// WorkList is the evacuator's work stack, passed to every TraceGC method.
type WorkList = descriptor.WorkList

// Tracer is implemented by any managed type embedding one or more
// ScopedHandle/Root fields. See package doc for the contract.
type Tracer = descriptor.Tracer

// Destroyer is implemented by any managed type that needs cleanup when its
// storage is reclaimed (closing a file descriptor, decrementing an external
// refcount, and so on).
type Destroyer = descriptor.Destroyer

// UnsafeToDrop opts a Destroyer out of having its destructor auto-invoked by
// the collector -- see Info.NeedsDrop in SPEC_FULL.md §4.3.
type UnsafeToDrop = descriptor.UnsafeToDrop
