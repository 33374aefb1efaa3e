package slab

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// AlignedMmap returns a B-aligned, B-sized anonymous mapping, where B is
// size (already rounded to a power of two by the caller). Invariant 1 of
// the spec -- recovering a block's base address by masking off the low
// log2(B) bits of any interior pointer -- only holds if the mapping itself
// starts on a B-aligned address, which plain unix.Mmap doesn't guarantee.
// We over-map by 2*size and trim the slack on either side of the first
// aligned boundary, the standard trick the teacher doesn't need (its
// Reference recovers identity via a smuggled generation byte, not address
// masking, see pkg/store/internal/pointerstore/reference.go).
func AlignedMmap(size uintptr) (uintptr, error) {
	raw, err := unix.Mmap(-1, 0, int(2*size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, fmt.Errorf("slab: cannot mmap %d bytes: %w: %w", 2*size, ErrAllocationFailed, err)
	}

	base := uintptr(unsafe.Pointer(&raw[0]))
	aligned := (base + size - 1) &^ (size - 1)

	if headSlack := aligned - base; headSlack > 0 {
		if err := unix.Munmap(rawBytes(base, headSlack)); err != nil {
			return 0, fmt.Errorf("slab: cannot trim alignment head: %w", err)
		}
	}

	tailStart := aligned + size
	tailEnd := base + 2*size
	if tailSlack := tailEnd - tailStart; tailSlack > 0 {
		if err := unix.Munmap(rawBytes(tailStart, tailSlack)); err != nil {
			return 0, fmt.Errorf("slab: cannot trim alignment tail: %w", err)
		}
	}

	return aligned, nil
}

// Munmap releases a region obtained from AlignedMmap.
func Munmap(addr, size uintptr) error {
	return unix.Munmap(rawBytes(addr, size))
}

func rawBytes(addr, size uintptr) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size))
}
