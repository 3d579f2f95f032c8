// Package align provides machine-word alignment helpers for the slab allocator.
//
// Every span handed out by the allocator is a multiple of WordSize so that the
// first word of a freed span can hold a free-list link.
package align

import "unsafe"

const (
	// WordSize is the size of a machine word (uintptr) in bytes.
	WordSize = int(unsafe.Sizeof(uintptr(0)))

	// WordMask is WordSize-1; WordSize is always a power of two.
	WordMask = WordSize - 1
)

// Up returns n rounded up to the next multiple of WordSize.
//
// Example (WordSize = 8):
//
//	Up(7)  = 8
//	Up(8)  = 8
//	Up(12) = 16
func Up(n int) int {
	return (n + WordMask) &^ WordMask
}

// Down returns n rounded down to a multiple of WordSize.
//
// Example (WordSize = 8):
//
//	Down(9)   = 8
//	Down(100) = 96
func Down(n int) int {
	return n &^ WordMask
}

// IsAligned reports whether n is a multiple of WordSize.
func IsAligned(n int) bool {
	return n&WordMask == 0
}

// IsAlignedPtr reports whether p is word aligned.
func IsAlignedPtr(p unsafe.Pointer) bool {
	return uintptr(p)&uintptr(WordMask) == 0
}
