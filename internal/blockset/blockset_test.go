package blockset

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmstephe/twospace/internal/descriptor"
)

type smallPayload struct {
	V int64
}

func smallDescriptor() *descriptor.Info {
	var zero smallPayload
	return &descriptor.Info{
		Name:  "smallPayload",
		Size:  unsafe.Sizeof(zero),
		Align: unsafe.Alignof(zero),
	}
}

// Demonstrate that a BlockSet reuses its most recent block until full, then
// appends a new one, and that every slot handed out is distinct.
func TestBlockSetAllocGrowsAcrossBlocks(t *testing.T) {
	desc := smallDescriptor()
	bs := New(desc, 1<<10)

	seen := map[uintptr]bool{}
	for i := 0; i < int(bs.Cfg.SlotsPerBlock)*3; i++ {
		addr, err := bs.Alloc(false)
		require.NoError(t, err)
		assert.False(t, seen[addr])
		seen[addr] = true
	}

	assert.Equal(t, 3, bs.BlockCount())
	assert.Equal(t, len(seen), bs.Allocs)
	assert.Equal(t, len(seen), bs.Live())

	for _, b := range bs.Blocks {
		require.NoError(t, b.Free())
	}
}
