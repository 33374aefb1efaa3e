// Package heap is the thread-confined nursery: the live map of per-type
// BlockSets, the block-base index that lets any interior pointer find its
// owning Block, the root table, the collection marker and the counters the
// growth heuristic needs. A Heap must never be touched by more than one
// goroutine at a time -- see SPEC_FULL.md §5.
package heap

import (
	"fmt"
	"reflect"

	"github.com/fmstephe/twospace/internal/blockset"
	"github.com/fmstephe/twospace/internal/descriptor"
	"github.com/fmstephe/twospace/internal/slab"
)

// Config carries the tunables a Heap is built with, the generalisation of
// the teacher's NewSized(slabSize int) constructor variant.
type Config struct {
	BlockSize      uintptr
	GrowthFactor   float64
	BaselineBlocks int
}

// Heap is the per-goroutine nursery.
type Heap struct {
	Config

	Marker bool
	Epoch  uint64

	Sets  map[reflect.Type]*blockset.BlockSet
	index map[uintptr]*slab.Block

	Roots      map[uint64]*slab.RootRecord
	nextRootID uint64

	PostCollectionBlockCount int
}

// New builds an empty Heap with cfg's tunables.
func New(cfg Config) *Heap {
	return &Heap{
		Config:                   cfg,
		Sets:                     make(map[reflect.Type]*blockset.BlockSet),
		index:                    make(map[uintptr]*slab.Block),
		Roots:                    make(map[uint64]*slab.RootRecord),
		PostCollectionBlockCount: cfg.BaselineBlocks,
	}
}

// setFor returns (creating if necessary) the BlockSet for desc's type.
func (h *Heap) setFor(desc *descriptor.Info) *blockset.BlockSet {
	bs, ok := h.Sets[desc.Typ]
	if !ok {
		bs = blockset.New(desc, h.BlockSize)
		h.Sets[desc.Typ] = bs
	}
	return bs
}

// AllocateSlot carves a fresh, zeroed slot for desc out of the current
// to-space (or the steady-state nursery, outside of a collection).
func (h *Heap) AllocateSlot(desc *descriptor.Info) (uintptr, error) {
	bs := h.setFor(desc)

	before := bs.BlockCount()
	addr, err := bs.Alloc(h.Marker)
	if err != nil {
		return 0, fmt.Errorf("heap: %w", err)
	}
	if bs.BlockCount() > before {
		h.index[bs.Blocks[len(bs.Blocks)-1].Base] = bs.Blocks[len(bs.Blocks)-1]
	}

	return addr, nil
}

// BlockOf returns the Block that owns addr, or nil if addr isn't owned by
// any block currently tracked by this Heap.
func (h *Heap) BlockOf(addr uintptr) *slab.Block {
	base := slab.BlockBaseOf(addr, h.BlockSize)
	return h.index[base]
}

// BlockCount is the current, whole-heap block count the growth heuristic
// compares against PostCollectionBlockCount.
func (h *Heap) BlockCount() int {
	total := 0
	for _, bs := range h.Sets {
		total += bs.BlockCount()
	}
	return total
}

// NextRootID hands out a fresh, heap-unique root identifier.
func (h *Heap) NextRootID() uint64 {
	h.nextRootID++
	return h.nextRootID
}

// SwapToSpace replaces the heap's live block sets and index with fresh,
// empty ones and flips the collection marker, as spec §4.6 step 1-2
// requires: from this point on, any allocation (including ones made by the
// evacuator itself) lands in the new to-space. The caller retains the old
// (fromSets, fromIndex) pair to drive the rest of the collection.
func (h *Heap) SwapToSpace() (fromSets map[reflect.Type]*blockset.BlockSet, fromIndex map[uintptr]*slab.Block) {
	fromSets, fromIndex = h.Sets, h.index

	h.Marker = !h.Marker
	h.Sets = make(map[reflect.Type]*blockset.BlockSet)
	h.index = make(map[uintptr]*slab.Block)

	return fromSets, fromIndex
}
