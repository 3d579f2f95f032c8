package slab

import (
	"log/slog"

	"github.com/joshuapare/slabkit/internal/mmblock"
)

const (
	// DefaultBlockSize is the block size used when Options.BlockSize is zero.
	DefaultBlockSize = 65536

	// TableSize is the number of slots in the recycle table. Lengths that are
	// equal modulo TableSize share a slot and are chained.
	TableSize = 256
)

// Options configures an Allocator. The zero value (or a nil *Options) gives a
// DefaultBlockSize heap-backed allocator with tracing controlled by the
// SLAB_LOG_ALLOC environment variable.
type Options struct {
	// BlockSize is the size in bytes of every block. It must be a multiple of
	// the machine word size and hold at least one element. 0 means DefaultBlockSize.
	BlockSize int

	// Source supplies block memory. nil means mmblock.Heap.
	Source mmblock.Source

	// Logger receives Debug-level trace events (one per allocation, free,
	// block creation and recycle decision). nil means the environment default.
	Logger *slog.Logger

	// StrictFree makes FreeScalar and FreeArray verify that the address lies
	// in an allocated region of a live block.
	StrictFree bool
}

func (o *Options) withDefaults() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.BlockSize == 0 {
		out.BlockSize = DefaultBlockSize
	}
	if out.Source == nil {
		out.Source = mmblock.Heap
	}
	if out.Logger == nil {
		out.Logger = defaultLogger()
	}
	return out
}
