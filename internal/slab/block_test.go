package slab

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmstephe/twospace/internal/descriptor"
)

type fixedPayload struct {
	A, B int64
}

func fixedDescriptor() *descriptor.Info {
	var zero fixedPayload
	return &descriptor.Info{
		Typ:   nil,
		Name:  "fixedPayload",
		Size:  unsafe.Sizeof(zero),
		Align: unsafe.Alignof(zero),
	}
}

// Demonstrate that a freshly created block hands out slots until full, and
// that Current tracks the live range from the top down (spec §4.7).
func TestBlockAllocSlotFillsThenRefusesFurtherAllocation(t *testing.T) {
	desc := fixedDescriptor()
	cfg := NewConfig(desc, 1<<12)

	b, err := NewBlock(desc, cfg, false)
	require.NoError(t, err)
	defer b.Free()

	seen := map[uintptr]bool{}
	count := 0
	for {
		addr, ok := b.AllocSlot()
		if !ok {
			break
		}
		assert.False(t, seen[addr], "slot handed out twice")
		seen[addr] = true
		count++
	}

	assert.Equal(t, int(cfg.SlotsPerBlock), count)
	assert.True(t, b.Full())
	assert.Equal(t, b.Bottom, b.Current)
}

// Demonstrate that a block's checksum catches direct tampering with its
// header fields, the spec's ChecksumMismatch.
func TestBlockVerifyPanicsOnChecksumMismatch(t *testing.T) {
	desc := fixedDescriptor()
	cfg := NewConfig(desc, 1<<12)

	b, err := NewBlock(desc, cfg, false)
	require.NoError(t, err)

	b.Marker = !b.Marker // mutate without calling Recheck

	assert.Panics(t, func() { b.Verify() })

	b.Recheck() // repair the header so Free's own Verify doesn't also panic
	require.NoError(t, b.Free())
}

// Demonstrate that Free runs the type's destructor on every slot that was
// never marked Moved, and that a Moved slot's destructor is skipped.
func TestBlockFreeDropsUnmovedSlots(t *testing.T) {
	destroyed := 0
	desc := fixedDescriptor()
	desc.NeedsDrop = true
	desc.DropFn = func(unsafe.Pointer) { destroyed++ }

	cfg := NewConfig(desc, 1<<12)
	b, err := NewBlock(desc, cfg, false)
	require.NoError(t, err)

	addr1, ok := b.AllocSlot()
	require.True(t, ok)
	addr2, ok := b.AllocSlot()
	require.True(t, ok)

	b.Status[addr1] = ObjectStatus{Kind: StatusMoved, Moved: 0xdead}
	_ = addr2 // left with no status entry: a plain, unrooted, unmoved object

	require.NoError(t, b.Free())
	assert.Equal(t, 1, destroyed)
}

// BlockBaseOf must recover the exact base address passed to NewBlock from
// any interior pointer into the block's usable range (invariant 1).
func TestBlockBaseOfRecoversBase(t *testing.T) {
	desc := fixedDescriptor()
	cfg := NewConfig(desc, 1<<12)

	b, err := NewBlock(desc, cfg, false)
	require.NoError(t, err)
	defer b.Free()

	addr, ok := b.AllocSlot()
	require.True(t, ok)

	assert.Equal(t, b.Base, BlockBaseOf(addr, cfg.BlockSize))
}
