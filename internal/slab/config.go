package slab

import (
	"github.com/fmstephe/flib/fmath"

	"github.com/fmstephe/twospace/internal/descriptor"
)

// fringeSize is a small reserved gap between a block's header bookkeeping
// and its first usable slot. The teacher's allocation_config.go reserves
// space for per-slot metadata instead; we have none (the status table is a
// sparse map, see status.go), so the fringe exists only to keep bottom from
// ever landing on the block's own base address, which would make BlockBaseOf
// ambiguous for a zero-size slot.
const fringeSize = 16

// Config describes how a block of size BlockSize is carved into slots for a
// single type.
type Config struct {
	BlockSize      uintptr
	SlotSize       uintptr
	SlotsPerBlock  uintptr
	UsableBlockLen uintptr
}

// NewConfig rounds blockSize up to the nearest power of two (as the
// teacher's pointerstore.NewAllocConfigBySize does for its slab size) and
// computes how many of desc's slots fit inside it.
func NewConfig(desc *descriptor.Info, blockSize uintptr) Config {
	roundedBlockSize := uintptr(fmath.NxtPowerOfTwo(int64(blockSize)))

	slotSize := uintptr(fmath.NxtPowerOfTwo(int64(desc.Size)))
	if slotSize < desc.Align {
		slotSize = uintptr(fmath.NxtPowerOfTwo(int64(desc.Align)))
	}
	if slotSize == 0 {
		slotSize = 1
	}

	usable := roundedBlockSize - fringeSize
	slotsPerBlock := usable / slotSize
	if slotsPerBlock == 0 {
		// The type is bigger than a default block; grow the block to
		// fit exactly one slot, mirroring the teacher's own fallback
		// in NewAllocConfigBySize ("match the object size for one
		// allocation per slab").
		slotsPerBlock = 1
		roundedBlockSize = uintptr(fmath.NxtPowerOfTwo(int64(slotSize + fringeSize)))
		usable = roundedBlockSize - fringeSize
	}

	return Config{
		BlockSize:      roundedBlockSize,
		SlotSize:       slotSize,
		SlotsPerBlock:  slotsPerBlock,
		UsableBlockLen: usable,
	}
}
