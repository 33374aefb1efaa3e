package slab

import (
	"encoding/binary"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// checksumFields returns the stable header fields a Block's checksum is
// computed over. Current is excluded: it mutates on every AllocSlot call,
// and recomputing plus re-verifying it on every allocation would make the
// checksum useless as a corruption detector (it would always just match
// whatever Current happens to be).
func checksumFields(b *Block) []byte {
	buf := make([]byte, 0, 64)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(b.Base))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(b.Bottom))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(b.Top))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(b.SlotSize))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(uintptr(unsafe.Pointer(b.Desc))))
	if b.Marker {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	return buf
}

func computeChecksum(b *Block) uint64 {
	return xxhash.Sum64(checksumFields(b))
}
