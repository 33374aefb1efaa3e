package slab

import "sync/atomic"

// globalBlockCount is the one piece of state shared across every Heap in
// the process: a whole-program block count used for statistics only (spec
// §5, "relaxed ordering sufficient"). Nothing else in this package is
// shared between heaps/goroutines.
var globalBlockCount atomic.Int64

// GlobalBlockCount returns the current whole-program block count.
func GlobalBlockCount() int64 {
	return globalBlockCount.Load()
}
