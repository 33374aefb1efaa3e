package slab

import "errors"

// ErrAllocationFailed is wrapped by any error this package returns when
// reserving memory for a new block fails -- the spec's AllocationFailed.
var ErrAllocationFailed = errors.New("slab: allocation failed")
