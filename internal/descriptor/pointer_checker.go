package descriptor

import (
	"fmt"
	"reflect"
	"strconv"
)

// HandleKind is implemented by gc.ScopedHandle[T] and gc.Root. A field of a
// type implementing it is a managed handle, not a disallowed Go pointer, and
// the pointer scan below treats it as an opaque leaf.
//
// This interface exists purely so that internal/descriptor -- which must sit
// below package gc in the import graph -- can recognise the handle types
// without importing them.
type HandleKind interface {
	GCHandleKind()
}

var handleKindType = reflect.TypeOf((*HandleKind)(nil)).Elem()

type typePaths struct {
	paths []string
}

func (p *typePaths) addPath(path string) {
	p.paths = append(p.paths, path)
}

func (p *typePaths) Len() int {
	return len(p.paths)
}

func (p *typePaths) String() string {
	if p.Len() == 0 {
		return ""
	}
	result := ""
	for _, path := range p.paths {
		result += path + ","
	}
	return result[:len(result)-1]
}

// ContainsNoDisallowedPointers walks t and fails if it finds any Go pointer
// that isn't routed through a managed handle (gc.ScopedHandle[T] or gc.Root).
// A managed value may embed handles and primitives, never a raw pointer,
// slice, map, string, channel, interface or func -- the same ban the
// teacher's offheap package enforces on its own payload types, ported here
// because the collector's blocks are unmanaged memory for the same reason:
// a Go pointer hidden inside one is invisible to both Go's collector and
// this one.
func ContainsNoDisallowedPointers(t reflect.Type) error {
	paths := &typePaths{}
	searchForPointers(t, "", paths)
	if paths.Len() != 0 {
		return fmt.Errorf("found disallowed pointer(s): %s", paths)
	}
	return nil
}

// bannedKinds are the reflect.Kinds that always carry a real Go pointer
// somewhere in their representation (directly, or via a backing array/data
// pointer the Go runtime's own collector would need to trace) and so can
// never appear inside a managed value -- unless routed through a
// HandleKind, handled separately below before this table is even
// consulted.
var bannedKinds = map[reflect.Kind]bool{
	reflect.Chan:          true,
	reflect.Func:          true,
	reflect.Interface:     true,
	reflect.Map:           true,
	reflect.Pointer:       true,
	reflect.Slice:         true,
	reflect.String:        true,
	reflect.UnsafePointer: true,
}

// numericKinds need no further recursion: a plain scalar traces to nothing.
var numericKinds = map[reflect.Kind]bool{
	reflect.Bool:       true,
	reflect.Int:        true,
	reflect.Int8:       true,
	reflect.Int16:      true,
	reflect.Int32:      true,
	reflect.Int64:      true,
	reflect.Uint:       true,
	reflect.Uint8:      true,
	reflect.Uint16:     true,
	reflect.Uint32:     true,
	reflect.Uint64:     true,
	reflect.Uintptr:    true,
	reflect.Float32:    true,
	reflect.Float64:    true,
	reflect.Complex64:  true,
	reflect.Complex128: true,
}

func searchForPointers(t reflect.Type, path string, paths *typePaths) {
	if t.Implements(handleKindType) || reflect.PointerTo(t).Implements(handleKindType) {
		return
	}

	kind := t.Kind()

	switch {
	case numericKinds[kind]:
		// nothing to recurse into

	case bannedKinds[kind]:
		paths.addPath(path + "<" + t.String() + ">")

	case kind == reflect.Array:
		searchForPointers(t.Elem(), path+"["+strconv.Itoa(t.Len())+"]", paths)

	case kind == reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			searchForPointers(field.Type, path+"("+t.String()+")"+field.Name, paths)
		}

	default:
		paths.addPath(path + "<" + t.String() + ">")
	}
}
