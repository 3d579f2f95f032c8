//go:build !unix && !windows

package mmblock

// Mapped falls back to the heap when the platform has no mapping support.
func Mapped() Source { return Heap }
