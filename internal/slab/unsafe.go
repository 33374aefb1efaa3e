package slab

import "unsafe"

func unsafePointerOf(addr uintptr) unsafe.Pointer {
	return unsafe.Pointer(addr) //nolint:govet // addr always points into a live mmap'd slot
}

// CopyBytes copies size bytes from src to dst, both raw slot addresses. Used
// by the evacuator to move an object from from-space into to-space.
func CopyBytes(dst, src, size uintptr) {
	dstBytes := unsafe.Slice((*byte)(unsafePointerOf(dst)), int(size))
	srcBytes := unsafe.Slice((*byte)(unsafePointerOf(src)), int(size))
	copy(dstBytes, srcBytes)
}

// PointerOf exposes unsafePointerOf to sibling packages (internal/evac,
// internal/heap) that need to hand raw addresses to a descriptor's DropFn or
// TraceFn.
func PointerOf(addr uintptr) unsafe.Pointer {
	return unsafePointerOf(addr)
}
