package slab

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded indicates a single request is larger than the configured block size.
	// It is a caller or configuration error and is never retried.
	ErrCapacityExceeded = errors.New("slab: request exceeds pool capacity")

	// ErrContractViolation indicates the caller broke a precondition, such as a scalar
	// request whose size differs from the element size or a misaligned block size.
	ErrContractViolation = errors.New("slab: contract violation")

	// ErrOutOfMemory indicates the backing store could not supply a new block.
	ErrOutOfMemory = errors.New("slab: out of memory")

	// ErrClosed indicates the allocator was used after Close.
	ErrClosed = errors.New("slab: allocator closed")
)

// CapacityError reports a request whose rounded size exceeds the block size.
type CapacityError struct {
	Requested int // rounded request in bytes
	BlockSize int // configured block size in bytes
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("slab: requested memory (%d) is greater than block size (%d)", e.Requested, e.BlockSize)
}

// Is makes errors.Is(err, ErrCapacityExceeded) match.
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

func contractf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrContractViolation}, args...)...)
}
