// Package slab is the block allocator: fixed-size, size-aligned memory
// regions carved into typed, fixed-size slots, plus the per-slot status
// table and root records that ride along with them. It is the unmanaged,
// unsafe.Pointer-and-uintptr layer beneath the generic, type-safe facade in
// package gc -- the same role internal/pointerstore plays under offheap.
package slab

import (
	"fmt"

	"github.com/fmstephe/twospace/internal/descriptor"
)

// ChecksumError reports that a Block's debug checksum no longer matches its
// header fields -- the spec's ChecksumMismatch, a fatal assertion failure
// indicating memory corruption.
type ChecksumError struct {
	Block *Block
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("slab: checksum mismatch for block of %s at %#x", e.Block.Desc.Name, e.Block.Base)
}

// DroppedObjectError reports that the evacuator (or anything else) found a
// Dropped status entry where a live reference was expected -- the spec's
// DroppedObjectVisited. It only ever indicates a bug in a hand-written
// TraceGC method or a wrong UnsafeToDrop annotation.
type DroppedObjectError struct {
	TypeName string
}

func (e *DroppedObjectError) Error() string {
	return fmt.Sprintf("slab: evacuator visited a dropped object of type %s", e.TypeName)
}

// Block is the header from spec §3: a single mmap'd region holding objects
// of one type, plus the bookkeeping needed to allocate, free and evacuate
// them. The header itself lives on the ordinary Go heap -- see SPEC_FULL.md
// §3 for why it cannot live inside the mmap'd region it describes.
type Block struct {
	Desc   *descriptor.Info
	Marker bool

	Base    uintptr // start of the mmap'd, block-size-aligned region
	Bottom  uintptr // first usable slot address
	Top     uintptr // one slot past the last usable slot
	Current uintptr // next slot to hand out; decrements towards Bottom

	SlotSize uintptr
	Status   map[uintptr]ObjectStatus

	checksum uint64
}

// NewBlock mmaps a fresh, block-size-aligned region and carves it into
// slots for desc, per cfg. marker is the collection cohort this block is
// born into (the "to-space" marker during a collection, or the heap's
// current marker otherwise).
func NewBlock(desc *descriptor.Info, cfg Config, marker bool) (*Block, error) {
	base, err := AlignedMmap(cfg.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("slab: %w", err)
	}

	bottom := base + fringeSize
	top := bottom + cfg.SlotSize*cfg.SlotsPerBlock

	b := &Block{
		Desc:     desc,
		Marker:   marker,
		Base:     base,
		Bottom:   bottom,
		Top:      top,
		Current:  top,
		SlotSize: cfg.SlotSize,
		Status:   make(map[uintptr]ObjectStatus),
	}
	b.Recheck()

	globalBlockCount.Add(1)

	return b, nil
}

// Recheck recomputes and stores the block's debug checksum. Called after
// every mutation of the fields checksumFields depends on.
func (b *Block) Recheck() {
	b.checksum = computeChecksum(b)
}

// Verify panics with a *ChecksumError if the block's header no longer
// matches its stored checksum.
func (b *Block) Verify() {
	if computeChecksum(b) != b.checksum {
		panic(&ChecksumError{Block: b})
	}
}

// AllocSlot hands out the next free slot, bumping Current downward by one
// slot (spec §4.7, "allocation downwards"). It returns false once the block
// is full; callers fall back to a new block.
func (b *Block) AllocSlot() (uintptr, bool) {
	b.Verify()

	if b.Current <= b.Bottom {
		return 0, false
	}
	b.Current -= b.SlotSize
	b.Recheck()
	return b.Current, true
}

// Full reports whether the block has no remaining slots.
func (b *Block) Full() bool {
	return b.Current <= b.Bottom
}

// BlockBaseOf recovers the base address of the block that owns addr, given
// that every block is aligned to blockSize (spec invariant 1).
func BlockBaseOf(addr, blockSize uintptr) uintptr {
	return addr &^ (blockSize - 1)
}

// Free runs destructors on every slot that never survived to to-space (any
// status other than Moved, including no status at all) and releases the
// block's memory. Spec §4.1 free_block.
func (b *Block) Free() error {
	b.Verify()

	if b.Desc.NeedsDrop {
		for addr := b.Current; addr < b.Top; addr += b.SlotSize {
			st, ok := b.Status[addr]
			if ok && st.Kind == StatusMoved {
				continue
			}
			if ok && st.Kind == StatusDropped {
				continue
			}
			b.Desc.DropFn(unsafePointerOf(addr))
			b.Status[addr] = ObjectStatus{Kind: StatusDropped}
		}
	}

	globalBlockCount.Add(-1)
	return Munmap(b.Base, blockTotalSize(b))
}

// blockTotalSize recovers cfg.BlockSize (the full mmap'd region size) from
// the header fields alone: it's the smallest power of two at least as large
// as the span from Base to Top.
func blockTotalSize(b *Block) uintptr {
	size := b.Top - b.Base
	aligned := uintptr(1)
	for aligned < size {
		aligned <<= 1
	}
	return aligned
}
