// Package descriptor builds and memoizes the per-type runtime records the
// collector needs: size, alignment, an optional destructor and an optional
// trace function. It knows nothing about blocks, heaps or handles -- it is
// the leaf of the module's dependency graph, same role internal/pointerstore
// plays for offheap's generic facade.
package descriptor

import (
	"reflect"
	"sync"
	"unsafe"
)

// Tracer is the hand-written substitute for the derive facility the spec
// treats as an external collaborator. A type implements TraceGC by calling
// Trace (see package gc) once for every embedded scoped handle reachable
// without crossing another managed indirection.
type Tracer interface {
	TraceGC(w *WorkList)
}

// Destroyer types run a destructor when their block is freed, unless they
// also opt out via UnsafeToDrop.
type Destroyer interface {
	Destroy()
}

// UnsafeToDrop is a marker interface for types that must never have their
// destructor auto-invoked by the collector, e.g. because they alias memory
// via a raw pointer. Such types leak their payload on free but preserve
// correctness -- see Info.NeedsDrop.
type UnsafeToDrop interface {
	GCUnsafeToDrop()
}

// Info is the GcInfo record from the spec: a runtime descriptor of a single
// managed type, shared by every block that stores values of that type.
type Info struct {
	Typ       reflect.Type
	Name      string
	Size      uintptr
	Align     uintptr
	NeedsDrop bool
	DropFn    func(unsafe.Pointer)
	TraceFn   func(unsafe.Pointer, *WorkList)
}

// Equal reports whether a and b describe the same type. Two descriptors
// equal iff they describe the same type; since DescriptorFor memoizes one
// *Info per reflect.Type, pointer identity already implies this, but Equal
// exists so callers never need to assume that invariant directly.
func (i *Info) Equal(o *Info) bool {
	if i == nil || o == nil {
		return i == o
	}
	return i.Typ == o.Typ
}

var registry sync.Map // reflect.Type -> *Info

// DescriptorFor returns the memoized descriptor for T, building it on first
// use. The returned pointer is stable for the lifetime of the process: it is
// the "trace function address is canonical identity" clause from the spec.
func DescriptorFor[T any]() *Info {
	typ := reflect.TypeOf((*T)(nil)).Elem()

	if v, ok := registry.Load(typ); ok {
		return v.(*Info)
	}

	info := build[T](typ)
	actual, _ := registry.LoadOrStore(typ, info)
	return actual.(*Info)
}

func build[T any](typ reflect.Type) *Info {
	if err := ContainsNoDisallowedPointers(typ); err != nil {
		panic("descriptor: " + typ.String() + " cannot be managed: " + err.Error())
	}

	var zero T
	info := &Info{
		Typ:   typ,
		Name:  typ.String(),
		Size:  unsafe.Sizeof(zero),
		Align: uintptr(typ.Align()),
	}

	if _, ok := any(&zero).(Tracer); ok {
		info.TraceFn = func(obj unsafe.Pointer, w *WorkList) {
			(any((*T)(obj))).(Tracer).TraceGC(w)
		}
	}

	if _, ok := any(&zero).(Destroyer); ok {
		_, unsafeToDrop := any(&zero).(UnsafeToDrop)
		info.NeedsDrop = !unsafeToDrop
		info.DropFn = func(obj unsafe.Pointer) {
			(any((*T)(obj))).(Destroyer).Destroy()
		}
	}

	return info
}
