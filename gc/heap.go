package gc

import (
	"github.com/fmstephe/twospace/internal/heap"
	"github.com/fmstephe/twospace/internal/slab"
)

// Default tunables, the generalisation of the teacher's defaultSlabSize
// (offheap/internal/pointerstore/allocation_config.go): a heap started with
// no options behaves like NewSized(defaultBlockSize) would.
const (
	defaultBlockSize      = 1 << 13
	defaultGrowthFactor   = 2.0
	defaultBaselineBlocks = 1
)

// Heap is the per-goroutine nursery. A Heap, and every Scope/ScopedHandle/
// Root derived from it, must never be used from more than one goroutine at
// a time -- see the package doc.
type Heap struct {
	internal *heap.Heap
}

// Option configures a Heap built by NewHeap.
type Option func(*heap.Config)

// BlockSize overrides the default per-block mmap size (rounded up to the
// next power of two). Larger blocks amortise mmap overhead across more
// slots; smaller blocks waste less space on types with few live instances.
func BlockSize(n uintptr) Option {
	return func(c *heap.Config) { c.BlockSize = n }
}

// GrowthFactor overrides the multiplier MaybeCollectGarbage compares the
// heap's current block count against (spec §4.6's growth heuristic).
func GrowthFactor(f float64) Option {
	return func(c *heap.Config) { c.GrowthFactor = f }
}

// BaselineBlocks overrides the minimum block count MaybeCollectGarbage's
// threshold is computed from, so a freshly created heap doesn't trigger a
// collection on its very first allocation.
func BaselineBlocks(n int) Option {
	return func(c *heap.Config) { c.BaselineBlocks = n }
}

// NewHeap builds an empty heap. With no options it behaves like the
// teacher's zero-argument New().
func NewHeap(opts ...Option) *Heap {
	cfg := heap.Config{
		BlockSize:      defaultBlockSize,
		GrowthFactor:   defaultGrowthFactor,
		BaselineBlocks: defaultBaselineBlocks,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Heap{internal: heap.New(cfg)}
}

// EnterGeneration opens a new generation scope over h. Allocations made
// through the returned Scope are reclaimed the next time a collection runs,
// unless rooted first.
func (h *Heap) EnterGeneration() *Scope {
	return &Scope{heap: h}
}

// Stats is one type's live accounting breakdown, the spec's supplemented
// reporting surface (SPEC_FULL.md §10), modelled on the teacher's
// offheap.Store.Stats()/pointerstore.Stats.
type Stats struct {
	TypeName string
	Allocs   int
	Live     int
	Slabs    int
}

// Stats reports one Stats entry per type that has a block set in the heap's
// current space, in no particular order. A collection starts fresh sets, so
// afterwards only types with surviving objects appear, and Allocs counts
// from the copies made by that collection.
func (h *Heap) Stats() []Stats {
	var out []Stats
	for typ, bs := range h.internal.Sets {
		out = append(out, Stats{
			TypeName: typ.String(),
			Allocs:   bs.Allocs,
			Live:     bs.Live(),
			Slabs:    bs.BlockCount(),
		})
	}
	return out
}

// AllocConfig is one type's static sizing configuration, the other half of
// the teacher's offheap.Store.AllocConfigs() surface.
type AllocConfig struct {
	TypeName      string
	SlotSize      uintptr
	SlotsPerBlock uintptr
	BlockSize     uintptr
}

// AllocConfigs reports one AllocConfig entry per type that has a block set
// in the heap's current space (the same set of types as Stats), in no
// particular order.
func (h *Heap) AllocConfigs() []AllocConfig {
	var out []AllocConfig
	for typ, bs := range h.internal.Sets {
		out = append(out, AllocConfig{
			TypeName:      typ.String(),
			SlotSize:      bs.Cfg.SlotSize,
			SlotsPerBlock: bs.Cfg.SlotsPerBlock,
			BlockSize:     bs.Cfg.BlockSize,
		})
	}
	return out
}

// BlockCount is the heap's current, whole-heap block count.
func (h *Heap) BlockCount() int {
	return h.internal.BlockCount()
}

// GlobalBlockCount is the whole-process block count across every Heap any
// goroutine has created, not just h -- spec §5's "shared-resource policy":
// an atomic counter kept for statistics only, with no other cross-heap
// state anywhere in this module.
func GlobalBlockCount() int64 {
	return slab.GlobalBlockCount()
}
