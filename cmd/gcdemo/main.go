// Command gcdemo builds a rooted linked list, runs two collections around
// it, and prints the heap's Stats() before and after each one -- a runnable
// version of the linked-list-survival scenario, in the style of the
// teacher's cmd/csv_reader.
package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/fmstephe/twospace/gc"
)

var valuesFlag = flag.String("values", "Foo,Bar,Bazz", "comma-separated list values to build the demo list from")

// word is a fixed-size stand-in for a managed string, the same
// accommodation package gc's own tests make for the fact a Go string header
// is itself a disallowed pointer type.
type word struct {
	len   uint8
	bytes [31]byte
}

func newWord(s string) word {
	var w word
	if len(s) > len(w.bytes) {
		s = s[:len(w.bytes)]
	}
	w.len = uint8(len(s))
	copy(w.bytes[:], s)
	return w
}

func (w word) String() string {
	return string(w.bytes[:w.len])
}

type node struct {
	Value word
	Next  gc.ScopedHandle[node]
}

func (n *node) TraceGC(w *gc.WorkList) {
	gc.Trace(w, &n.Next)
}

func buildList(scope *gc.Scope, values []string) (gc.Root, error) {
	var tail gc.ScopedHandle[node]
	for i := len(values) - 1; i >= 0; i-- {
		h, err := gc.Alloc(scope, node{Value: newWord(values[i]), Next: tail})
		if err != nil {
			return gc.Root{}, err
		}
		tail = h
	}
	return gc.RootFromScoped(scope, tail)
}

func printStats(label string, h *gc.Heap) {
	fmt.Printf("%s: blocks=%d\n", label, h.BlockCount())
	for _, s := range h.Stats() {
		fmt.Printf("  %-20s allocs=%-6d live=%-6d slabs=%d\n", s.TypeName, s.Allocs, s.Live, s.Slabs)
	}
}

func main() {
	flag.Parse()

	values := strings.Split(*valuesFlag, ",")

	h := gc.NewHeap()
	scope := h.EnterGeneration()

	root, err := buildList(scope, values)
	if err != nil {
		fmt.Printf("error building list: %s\n", err)
		return
	}
	scope.Close()

	printStats("before first collection", h)
	if err := gc.CollectGarbage(scope); err != nil {
		fmt.Printf("error collecting: %s\n", err)
		return
	}
	printStats("after first collection", h)

	scope2 := h.EnterGeneration()
	listHandle, ok := gc.Project[node](scope2, root)
	if !ok {
		fmt.Printf("root did not survive collection\n")
		return
	}

	fmt.Print("list: ")
	for cur := listHandle; !cur.IsZero(); {
		n := cur.Value(scope2)
		fmt.Printf("%s ", n.Value.String())
		cur = n.Next
	}
	fmt.Println()
	scope2.Close()

	if err := gc.CollectGarbage(scope2); err != nil {
		fmt.Printf("error collecting: %s\n", err)
		return
	}
	printStats("after second collection", h)
}
