// Package slab provides a fixed-element-size memory pool.
//
// # Overview
//
// An Allocator serves memory for one element size S: single elements
// (scalars) and arrays of elements. Memory comes from large blocks reserved
// up front and handed out with a bump pointer. Freed memory never goes back to
// the system; it is parked on an intrusive free list for its element count and
// handed out again to the next request of the same count.
//
//   - Allocation: O(1) list pop, or O(1) bump from the active block
//   - Deallocation: O(1) list push
//   - Growth: one block reservation when the active block runs out
//
// # Usage Example
//
//	type point struct{ X, Y float64 }
//
//	pool, err := slab.NewPool[point](&slab.Options{BlockSize: 4096})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	p, err := pool.New()
//	if err != nil {
//	    return err
//	}
//	p.X, p.Y = 1, 2
//	_ = pool.Delete(p) // the next pool.New() returns the same address
//
//	pts, err := pool.NewSlice(16)
//	if err != nil {
//	    return err
//	}
//	for i := range pts.Elems() {
//	    pts.Elems()[i].X = float64(i)
//	}
//	_ = pool.DeleteSlice(pts)
//
// # Recycle Table
//
// Free lists live in a table of TableSize slots. The list for element count n
// hangs off slot n%TableSize; counts that alias a slot get their own list,
// chained behind the slot's root. Scalars always use count 0.
//
// An array of n elements occupies one header word plus n*S bytes, rounded up
// to a word multiple. Its count class is (span - WordSize) / S, so two
// requests share a list exactly when their rounded spans represent the same
// count.
//
// # Salvage
//
// When the active block cannot fit a request, a new block is pushed in front
// of it. The old block's remaining tail, rounded down to a word multiple, is
// parked on the list for the largest count it can hold instead of being lost.
//
// # Errors
//
//   - ErrCapacityExceeded: a request larger than the block size (never retried)
//   - ErrContractViolation: a broken precondition (wrong scalar size,
//     misaligned block size, foreign pointer under StrictFree)
//   - ErrOutOfMemory: the block Source could not reserve a block
//
// # Thread Safety
//
// Allocator and Pool are not thread-safe. Callers must synchronize access
// externally.
//
// # Tracing
//
// Set SLAB_LOG_ALLOC=1 or pass Options.Logger to get one Debug-level slog
// event per allocation, free, block creation and recycle decision.
package slab
