package slab

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/joshuapare/slabkit/internal/align"
	"github.com/joshuapare/slabkit/internal/buf"
	"github.com/joshuapare/slabkit/internal/mmblock"
)

// Allocator serves fixed-size elements and arrays of them from a chain of
// uniformly sized blocks, recycling freed spans through a table of intrusive
// free lists keyed by element count.
//
// An Allocator is not safe for concurrent use.
type Allocator struct {
	elemSize   int
	scalarSpan int // elemSize rounded up to a word multiple
	blockSize  int

	// active is the head of the block chain; older blocks hang off next.
	active *block

	// table[i] is the root bucket for every length with length%TableSize == i.
	table [TableSize]bucket

	src     mmblock.Source
	log     *slog.Logger
	tracing bool
	strict  bool
	closed  bool

	stats Stats
}

// New creates an Allocator for elements of elemSize bytes and reserves its
// first block. A nil opts uses the defaults described on Options.
func New(elemSize int, opts *Options) (*Allocator, error) {
	if elemSize <= 0 {
		return nil, contractf("element size must be positive, got %d", elemSize)
	}
	o := opts.withDefaults()

	a := &Allocator{
		elemSize:   elemSize,
		scalarSpan: align.Up(elemSize),
		src:        o.Source,
		log:        o.Logger,
		strict:     o.StrictFree,
	}
	a.tracing = traceEnabled(a.log)

	if err := a.checkBlockSize(o.BlockSize); err != nil {
		return nil, err
	}
	a.blockSize = o.BlockSize

	blk, err := a.reserve(a.blockSize, nil)
	if err != nil {
		return nil, err
	}
	a.active = blk

	for i := range a.table {
		a.table[i].length = i
	}

	a.trace("new allocator",
		"elemSize", elemSize, "blockSize", a.blockSize, "source", a.src.Name())
	return a, nil
}

// ElemSize returns the element size in bytes.
func (a *Allocator) ElemSize() int { return a.elemSize }

// BlockSize returns the current block size in bytes.
func (a *Allocator) BlockSize() int { return a.blockSize }

// AllocScalar returns one element's worth of memory. size must equal the
// element size. The memory is not zeroed.
func (a *Allocator) AllocScalar(size int) (unsafe.Pointer, error) {
	if a.closed {
		return nil, ErrClosed
	}
	if size != a.elemSize {
		return nil, contractf("scalar request of %d bytes, element size is %d", size, a.elemSize)
	}
	a.trace("alloc", "bytes", size)
	return a.getMem(size, true)
}

// AllocArray returns memory for n elements. The span is one header word plus
// n elements; the header word is reserved and holds the free-list link while
// the span is recycled. AllocArray(0) returns the empty Array without
// touching the pool. The memory is not zeroed.
func (a *Allocator) AllocArray(n int) (Array, error) {
	if a.closed {
		return Array{}, ErrClosed
	}
	if n < 0 {
		return Array{}, contractf("negative array length %d", n)
	}
	if n == 0 {
		return Array{}, nil
	}
	t, err := buf.SpanSize(align.WordSize, n, a.elemSize)
	if err != nil {
		return Array{}, fmt.Errorf("%w: array of %d elements: %w", ErrCapacityExceeded, n, err)
	}
	a.trace("alloc array", "length", n, "bytes", t)
	p, err := a.getMem(t, false)
	if err != nil {
		return Array{}, err
	}
	return Array{base: p, n: n}, nil
}

// FreeScalar returns p, obtained from AllocScalar, to the scalar recycle list.
// p's contents are overwritten. Passing memory from anywhere else is a caller
// error that is only detected with Options.StrictFree.
func (a *Allocator) FreeScalar(p unsafe.Pointer) error {
	if a.closed {
		return ErrClosed
	}
	if p == nil {
		return contractf("free of nil pointer")
	}
	if a.strict {
		if err := a.checkOwned(p, a.scalarSpan); err != nil {
			return err
		}
	}
	a.stats.FreeCalls++
	a.trace("free", "length", 0, "addr", p)
	a.table[0].pushFront(p)
	return nil
}

// FreeArray returns arr to the recycle list for its element count. Freeing
// the empty Array is a no-op.
func (a *Allocator) FreeArray(arr Array) error {
	if a.closed {
		return ErrClosed
	}
	if arr.IsEmpty() {
		return nil
	}
	t := align.Up(align.WordSize + arr.n*a.elemSize)
	if a.strict {
		if err := a.checkOwned(arr.base, t); err != nil {
			return err
		}
	}
	n := a.lengthForSpan(t)
	a.stats.FreeCalls++
	a.trace("free array", "length", arr.n, "class", n, "addr", arr.base)
	a.bucketFor(n).pushFront(arr.base)
	return nil
}

// Reset drops every block except the oldest and empties all recycle lists.
// With newBlockSize 0 or equal to the current size the retained block is
// rewound in place; otherwise it is replaced by a fresh block of
// newBlockSize. Every pointer previously handed out becomes invalid.
func (a *Allocator) Reset(newBlockSize int) error {
	if a.closed {
		return ErrClosed
	}
	if newBlockSize != 0 {
		if err := a.checkBlockSize(newBlockSize); err != nil {
			return err
		}
	}
	a.trace("reset", "blockSize", newBlockSize)

	for a.active.next != nil {
		next := a.active.next
		a.active.next = nil
		a.release(a.active)
		a.active = next
	}
	for i := range a.table {
		a.table[i].clear()
	}
	a.stats.Resets++

	if newBlockSize == 0 || newBlockSize == a.blockSize {
		a.active.reset()
		return nil
	}

	blk, err := a.reserve(newBlockSize, nil)
	if err != nil {
		a.active.reset()
		return err
	}
	a.release(a.active)
	a.active = blk
	a.blockSize = newBlockSize
	return nil
}

// Close releases every block back to its source. The allocator cannot be
// used afterwards and all memory it handed out is invalid.
func (a *Allocator) Close() error {
	if a.closed {
		return nil
	}
	var errs []error
	for b := a.active; b != nil; {
		next := b.next
		b.next = nil
		if err := a.src.Release(b.buf); err != nil {
			errs = append(errs, err)
		}
		b = next
	}
	a.active = nil
	for i := range a.table {
		a.table[i].clear()
	}
	a.closed = true
	return errors.Join(errs...)
}

// NumBlocks returns the length of the block chain.
func (a *Allocator) NumBlocks() int {
	n := 0
	for b := a.active; b != nil; b = b.next {
		n++
	}
	return n
}

// ActiveFree returns the unallocated bytes left in the active block.
func (a *Allocator) ActiveFree() int {
	if a.active == nil {
		return 0
	}
	return a.active.remaining()
}

// getMem is the shared allocation path. t is the request in bytes; scalar
// requests always use the length-0 list.
func (a *Allocator) getMem(t int, scalar bool) (unsafe.Pointer, error) {
	t = align.Up(t)
	if t > a.blockSize {
		a.trace("request exceeds block size", "requested", t, "blockSize", a.blockSize)
		return nil, &CapacityError{Requested: t, BlockSize: a.blockSize}
	}
	a.stats.AllocCalls++

	n := 0
	if !scalar {
		n = a.lengthForSpan(t)
	}
	if p := a.bucketFor(n).popFront(); p != nil {
		a.stats.RecycleHits++
		a.trace("recycled", "length", n, "addr", p)
		return p, nil
	}

	p, ok := a.active.bump(t)
	if !ok {
		if err := a.grow(); err != nil {
			return nil, err
		}
		p, ok = a.active.bump(t)
		if !ok {
			panic(fmt.Sprintf("slab: fresh %d-byte block cannot hold %d bytes", a.blockSize, t))
		}
	}
	a.stats.BumpAllocs++
	a.trace("acquired", "bytes", t, "addr", p)
	return p, nil
}

// grow pushes a new block in front of the active one. The new block is
// reserved before anything else changes so a failed reservation leaves the
// allocator untouched; only then is the old block's tail salvaged.
func (a *Allocator) grow() error {
	old := a.active
	blk, err := a.reserve(a.blockSize, old)
	if err != nil {
		return err
	}
	a.salvage(old)
	a.active = blk
	a.stats.BlocksCreated++
	a.trace("new block", "addr", blk.base, "blockSize", a.blockSize)
	a.dumpState("new block")
	return nil
}

// salvage parks the word-aligned tail of b in the list for the largest
// element count it can hold, so the tail of a full block stays reusable.
func (a *Allocator) salvage(b *block) {
	r := align.Down(b.remaining())
	if r < a.scalarSpan {
		return
	}
	p, ok := b.bump(r)
	if !ok {
		return
	}
	n := a.lengthForSpan(r)
	a.bucketFor(n).pushFront(p)
	a.stats.Salvages++
	a.stats.SalvagedBytes += int64(r)
	a.trace("salvage", "length", n, "bytes", r, "addr", p)
}

// lengthForSpan returns the element count a word-aligned span of t bytes
// represents: (t - header word) / elemSize. Spans too small for a one-element
// array map to 0, the scalar list.
func (a *Allocator) lengthForSpan(t int) int {
	if t < align.WordSize+a.elemSize {
		return 0
	}
	return (t - align.WordSize) / a.elemSize
}

func (a *Allocator) bucketFor(n int) *bucket {
	return a.table[n%TableSize].findOrCreate(n)
}

func (a *Allocator) checkBlockSize(size int) error {
	if size <= 0 || !align.IsAligned(size) {
		return contractf("block size %d is not a positive multiple of %d", size, align.WordSize)
	}
	if size < a.scalarSpan {
		return contractf("block size %d cannot hold one %d-byte element", size, a.elemSize)
	}
	return nil
}

// checkOwned verifies p is word aligned and its n bytes were handed out by
// some live block.
func (a *Allocator) checkOwned(p unsafe.Pointer, n int) error {
	if !align.IsAlignedPtr(p) {
		return contractf("free of misaligned pointer %p", p)
	}
	for b := a.active; b != nil; b = b.next {
		if b.contains(p, n) {
			return nil
		}
	}
	return contractf("free of pointer %p not owned by this allocator", p)
}

func (a *Allocator) reserve(size int, next *block) (*block, error) {
	region, err := a.src.Reserve(size)
	if err != nil {
		a.log.Error("block reservation failed", "source", a.src.Name(), "size", size, "err", err)
		return nil, fmt.Errorf("%w: block of %d bytes: %w", ErrOutOfMemory, size, err)
	}
	return newBlock(region, next), nil
}

func (a *Allocator) release(b *block) {
	if err := a.src.Release(b.buf); err != nil {
		a.log.Warn("block release failed", "source", a.src.Name(), "err", err)
	}
}
