package gc

import "github.com/fmstephe/twospace/internal/evac"

// CollectGarbage runs one full stop-the-world collection over s's heap.
// Its precondition -- no ScopedHandle currently held by the caller -- is
// unchecked (Go can't see liveness of local variables); any handle held
// across this call panics on next use instead, via the epoch bump every
// collection performs.
func CollectGarbage(s *Scope) error {
	return evac.Collect(s.heap.internal)
}

// MaybeCollectGarbage runs a collection only if the heap's block count
// strictly exceeds GrowthFactor times its block count as of the last
// collection (spec §4.6's growth heuristic: "exceeds 2x..."), otherwise it
// is a no-op.
func MaybeCollectGarbage(s *Scope) error {
	h := s.heap.internal
	threshold := float64(h.PostCollectionBlockCount) * h.GrowthFactor
	if float64(h.BlockCount()) <= threshold {
		return nil
	}
	return evac.Collect(h)
}
