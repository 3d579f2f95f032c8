package slab

import "unsafe"

// A recycled span stops being caller payload and becomes a free-list node:
// its first word holds the address of the next node. These two helpers are
// the only place that reinterpretation happens.

func loadLink(p unsafe.Pointer) unsafe.Pointer {
	return *(*unsafe.Pointer)(p)
}

func storeLink(p, next unsafe.Pointer) {
	*(*unsafe.Pointer)(p) = next
}
