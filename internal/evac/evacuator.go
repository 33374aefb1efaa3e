// Package evac implements the collection algorithm: flip the marker, copy
// every live object reachable from a root into a fresh to-space, rewrite
// every pointer along the way, and free whatever didn't survive.
package evac

import (
	"reflect"
	"unsafe"

	"github.com/fmstephe/twospace/internal/blockset"
	"github.com/fmstephe/twospace/internal/descriptor"
	"github.com/fmstephe/twospace/internal/heap"
	"github.com/fmstephe/twospace/internal/slab"
)

// Collect runs one full stop-the-world collection over h, per spec §4.6.
// Any ScopedHandle still reachable from a root comes out retraced and
// valid; any handle that wasn't reachable becomes detectably stale, since
// nothing re-stamps its epoch field while its referent is freed out from
// under it.
func Collect(h *heap.Heap) error {
	fromSets, fromIndex := h.SwapToSpace()

	// Bumped here, before any handle is retraced, so every ScopedHandle
	// the drain pass rewrites (via TracePoint.EpochSlot) is stamped with
	// the epoch that will be current once this call returns -- not the
	// one about to be superseded.
	h.Epoch++

	work := &descriptor.WorkList{}
	seed(h, work)

	if err := drain(h, fromIndex, work); err != nil {
		return err
	}

	if err := sweep(fromSets); err != nil {
		return err
	}

	h.PostCollectionBlockCount = h.BlockCount()
	if h.PostCollectionBlockCount < h.BaselineBlocks {
		h.PostCollectionBlockCount = h.BaselineBlocks
	}

	return nil
}

// seed pushes one synthetic TracePoint per outstanding root, per spec §4.6
// step 3. Walking h.Roots directly is equivalent to walking every
// from-space block's status table for Rooted entries (every RootRecord has
// exactly one, by construction) and avoids a second full scan of the
// nursery.
func seed(h *heap.Heap, work *descriptor.WorkList) {
	for _, r := range h.Roots {
		r.MarkerSeen = false
		r.TracedCount = 0

		record := r
		work.Push(descriptor.TracePoint{
			Slot:    &record.CurrentPtr,
			TraceFn: record.TraceFn(),
		})
	}
}

// drain walks the work stack until empty, copying each not-yet-moved
// referent into to-space, recursing into its own children, and rewriting
// the field that pointed at it.
func drain(h *heap.Heap, fromIndex map[uintptr]*slab.Block, work *descriptor.WorkList) error {
	for {
		tp, ok := work.Pop()
		if !ok {
			return nil
		}

		old := *tp.Slot
		if old == 0 {
			continue
		}

		block := blockOf(fromIndex, old, h.BlockSize)
		if block == nil {
			// Already in to-space -- can happen when two roots
			// transitively reference the same object and both
			// were seeded before either was visited.
			continue
		}
		block.Verify()

		status, hasStatus := block.Status[old]

		var newAddr uintptr
		switch {
		case hasStatus && status.Kind == slab.StatusMoved:
			newAddr = status.Moved

		case hasStatus && status.Kind == slab.StatusDropped:
			panic(&slab.DroppedObjectError{TypeName: block.Desc.Name})

		case hasStatus && status.Kind == slab.StatusRooted:
			addr, err := copyObject(h, block, old, tp.TraceFn, work)
			if err != nil {
				return err
			}
			newAddr = addr

			R := status.Root
			toBlock := h.BlockOf(newAddr)
			toBlock.Status[newAddr] = slab.ObjectStatus{Kind: slab.StatusRooted, Root: R}
			R.CurrentPtr = newAddr
			R.MarkerSeen = true
			R.TracedCount++
			block.Status[old] = slab.ObjectStatus{Kind: slab.StatusMoved, Moved: newAddr}

		default: // no status entry at all: a plain, unrooted object
			addr, err := copyObject(h, block, old, tp.TraceFn, work)
			if err != nil {
				return err
			}
			newAddr = addr
			block.Status[old] = slab.ObjectStatus{Kind: slab.StatusMoved, Moved: newAddr}
		}

		*tp.Slot = newAddr
		if tp.EpochSlot != nil {
			*tp.EpochSlot = h.Epoch
		}
	}
}

// copyObject allocates a slot in to-space matching block's descriptor,
// copies the bytes at old into it, and recurses into the copy's own
// children via traceFn before returning. The spec requires the children be
// enqueued before the forwarding entry becomes visible to any other
// in-flight reference, which holds here: the caller only installs the
// Moved/Rooted status entry after copyObject returns.
func copyObject(h *heap.Heap, block *slab.Block, old uintptr, traceFn func(unsafe.Pointer, *descriptor.WorkList), work *descriptor.WorkList) (uintptr, error) {
	newAddr, err := h.AllocateSlot(block.Desc)
	if err != nil {
		return 0, err
	}

	slab.CopyBytes(newAddr, old, block.Desc.Size)

	if traceFn != nil {
		traceFn(slab.PointerOf(newAddr), work)
	}

	return newAddr, nil
}

// sweep frees every from-space block once the drain pass has decided which
// of its slots survived. Block.Free runs destructors for everything that
// stayed behind, per spec §4.1.
func sweep(fromSets map[reflect.Type]*blockset.BlockSet) error {
	for _, bs := range fromSets {
		for _, b := range bs.Blocks {
			if err := b.Free(); err != nil {
				return err
			}
		}
	}
	return nil
}

func blockOf(index map[uintptr]*slab.Block, addr, blockSize uintptr) *slab.Block {
	base := slab.BlockBaseOf(addr, blockSize)
	return index[base]
}
