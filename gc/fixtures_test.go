package gc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Fixture types shared across the scenario tests in gc_test.go. None of
// these contain a raw Go pointer, slice, map, string, channel, interface or
// func -- the same restriction DescriptorFor enforces on any type a caller
// hands to Alloc.

// Str16 is the fixed-size stand-in for a managed string: Go's native string
// header is itself a banned pointer type (its backing array lives outside
// whatever block holds the header), so test fixtures that need string-like
// values use a small inline byte array instead, the same accommodation the
// teacher's own offheap package makes for strings via its separate
// stringstore rather than storing a Go string value directly.
type Str16 struct {
	Len   uint8
	Bytes [15]byte
}

func newStr16(s string) Str16 {
	if len(s) > len(Str16{}.Bytes) {
		panic("newStr16: string too long for fixture")
	}
	var out Str16
	out.Len = uint8(len(s))
	copy(out.Bytes[:], s)
	return out
}

func (s Str16) String() string {
	return string(s.Bytes[:s.Len])
}

// Triple, Pair3, Pair2 and MixedTuple together model the nested tuple
// (1, 2, (1, 1, (1, 1, (1, 1, 1)))) from the allocate/drop scenario.
type Triple struct {
	A, B, C int
}

type Pair3 struct {
	A, B int
	C    Triple
}

type Pair2 struct {
	A, B int
	C    Pair3
}

type MixedTuple struct {
	A, B int
	C    Pair2
}

func mixedTupleFixture() MixedTuple {
	return MixedTuple{A: 1, B: 2, C: Pair2{A: 1, B: 1, C: Pair3{A: 1, B: 1, C: Triple{A: 1, B: 1, C: 1}}}}
}

// IntOption models Option<int>.
type IntOption struct {
	HasValue bool
	Value    int
}

// countedAlive is the thread-local destructor counter from the spec's
// Counted::new(), reduced to a package variable since every test in this
// file runs single-goroutine by construction (package gc's own memory
// model contract).
var countedAlive int

type Counted struct{}

func (c *Counted) Destroy() {
	countedAlive--
}

// ListNode is a singly-linked list cell holding a Str16 payload, used by
// the linked-list-survival scenario.
type ListNode struct {
	Value Str16
	Next  ScopedHandle[ListNode]
}

func (n *ListNode) TraceGC(w *WorkList) {
	Trace(w, &n.Next)
}

func buildList(t *testing.T, scope *Scope, values []string) Root {
	var tail ScopedHandle[ListNode]
	for i := len(values) - 1; i >= 0; i-- {
		node := ListNode{Value: newStr16(values[i]), Next: tail}
		h, err := Alloc(scope, node)
		require.NoError(t, err)
		tail = h
	}
	root, err := RootFromScoped(scope, tail)
	require.NoError(t, err)
	return root
}

func materializeList(scope *Scope, h ScopedHandle[ListNode]) []string {
	var out []string
	cur := h
	for !cur.IsZero() {
		node := cur.Value(scope)
		out = append(out, node.Value.String())
		cur = node.Next
	}
	return out
}

// Cell is the cyclic-root fixture: its own Self field is a Root pointing
// back at the Cell itself. A Root field needs no TraceGC call -- unlike a
// ScopedHandle, a Root's identity never changes across a collection (only
// its RootRecord.CurrentPtr does, maintained out-of-band), so there is
// nothing inside the Cell's own bytes for the evacuator to rewrite.
type Cell struct {
	Self    Root
	Counted Counted
}

func (c *Cell) Destroy() {
	c.Counted.Destroy()
}

// IntHolder and TwoCellList are the nested-scoped-handle fixture: two list
// cells sharing one ScopedHandle to the same integer.
type IntHolder struct {
	Value ScopedHandle[int]
}

func (h *IntHolder) TraceGC(w *WorkList) {
	Trace(w, &h.Value)
}

type TwoCellList struct {
	First, Second ScopedHandle[IntHolder]
}

func (l *TwoCellList) TraceGC(w *WorkList) {
	Trace(w, &l.First)
	Trace(w, &l.Second)
}
