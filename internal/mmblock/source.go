// Package mmblock provides the backing stores that slab blocks are reserved from.
//
// A Source hands out fixed-size byte regions and takes them back when the
// allocator drops a block. Heap regions live in the Go heap; Mapped regions are
// anonymous private mappings outside it, so a failed reservation comes back as
// an error instead of a fatal runtime out-of-memory.
package mmblock

import (
	"errors"
	"fmt"
)

// ErrReserve indicates the backing store could not supply a region.
var ErrReserve = errors.New("mmblock: reserve failed")

// Source reserves and releases block regions.
type Source interface {
	// Reserve returns a zeroed region of exactly size bytes whose first byte
	// is at least word aligned.
	Reserve(size int) ([]byte, error)

	// Release returns a region obtained from Reserve. The region must not be
	// used afterwards.
	Release(region []byte) error

	// Name identifies the source in diagnostics.
	Name() string
}

// Heap reserves regions with make. Release is a no-op; the garbage collector
// reclaims a region once nothing references it.
var Heap Source = heapSource{}

type heapSource struct{}

func (heapSource) Reserve(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrReserve, size)
	}
	return make([]byte, size), nil
}

func (heapSource) Release([]byte) error { return nil }

func (heapSource) Name() string { return "heap" }
