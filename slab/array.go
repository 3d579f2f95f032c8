package slab

import (
	"unsafe"

	"github.com/joshuapare/slabkit/internal/align"
)

// Array is an owned array allocation: the span's base address and its element
// count. The count travels with the handle, so FreeArray never has to read a
// length out of the span.
//
// Layout of the span:
//
//	base             base+WordSize
//	| header word    | element 0 | element 1 | ... | element n-1 |
type Array struct {
	base unsafe.Pointer
	n    int
}

// Len returns the number of elements.
func (r Array) Len() int { return r.n }

// IsEmpty reports whether r holds no memory (the result of AllocArray(0)).
func (r Array) IsEmpty() bool { return r.base == nil }

// Base returns the start of the span, including the header word.
func (r Array) Base() unsafe.Pointer { return r.base }

// Data returns the address of element 0, or nil for the empty Array.
func (r Array) Data() unsafe.Pointer {
	if r.base == nil {
		return nil
	}
	return unsafe.Add(r.base, align.WordSize)
}
