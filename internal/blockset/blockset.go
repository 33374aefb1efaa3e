// Package blockset groups a single type's blocks into the container the
// spec calls "Blocks": allocation tries the last block first and appends a
// fresh one on overflow, mirroring pointerstore.Store's own slab growth
// (minus its concurrency control -- see SPEC_FULL.md §5 for why this
// collector's single-writer model doesn't need it).
package blockset

import (
	"github.com/fmstephe/twospace/internal/descriptor"
	"github.com/fmstephe/twospace/internal/slab"
)

// BlockSet is every block currently holding values of one type, for one
// Heap.
type BlockSet struct {
	Desc   *descriptor.Info
	Cfg    slab.Config
	Blocks []*slab.Block

	// Allocs is a running total of every slot ever handed out by this set,
	// the "Allocs" half of the teacher's offheap.Stats reporting surface.
	Allocs int
}

// New creates an empty BlockSet for desc, sized by blockSize.
func New(desc *descriptor.Info, blockSize uintptr) *BlockSet {
	return &BlockSet{
		Desc: desc,
		Cfg:  slab.NewConfig(desc, blockSize),
	}
}

// Alloc returns a fresh slot, trying the most recently created block first
// and appending a new block when every existing one is full.
func (bs *BlockSet) Alloc(marker bool) (uintptr, error) {
	if n := len(bs.Blocks); n > 0 {
		last := bs.Blocks[n-1]
		if addr, ok := last.AllocSlot(); ok {
			bs.Allocs++
			return addr, nil
		}
	}

	b, err := slab.NewBlock(bs.Desc, bs.Cfg, marker)
	if err != nil {
		return 0, err
	}
	bs.Blocks = append(bs.Blocks, b)

	addr, ok := b.AllocSlot()
	if !ok {
		// Every Config guarantees SlotsPerBlock >= 1, so a brand new
		// block always has room for at least one allocation.
		panic("blockset: freshly created block has no room for a single slot")
	}
	bs.Allocs++
	return addr, nil
}

// Live reports how many slots across every block in this set are currently
// occupied (not yet handed back to Current's free range).
func (bs *BlockSet) Live() int {
	live := 0
	for _, b := range bs.Blocks {
		live += int((b.Top - b.Current) / b.SlotSize)
	}
	return live
}

// BlockCount reports how many blocks currently belong to this set.
func (bs *BlockSet) BlockCount() int {
	return len(bs.Blocks)
}
