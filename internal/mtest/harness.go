// Package mtest drives a slab.Pool from a small line-oriented command
// language and checks that live allocations never overlap.
//
// Every payload is hashed with xxh3 when it is written; verify recomputes the
// hashes, so a block handed out twice shows up as a digest mismatch.
package mtest

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"unsafe"

	"github.com/zeebo/xxh3"

	"github.com/joshuapare/slabkit/slab"
)

// ErrCorrupt is returned by Verify when a live payload no longer matches its digest.
var ErrCorrupt = errors.New("mtest: payload corrupted")

// Object is the element type the harness allocates.
type Object struct {
	ID   uint64
	Data [48]byte
}

type object struct {
	p   *Object
	sum uint64
}

type array struct {
	s   slab.Slice[Object]
	sum uint64
}

// Harness owns a pool and the objects and arrays currently allocated from it.
type Harness struct {
	pool   *slab.Pool[Object]
	objs   []object
	arrs   []array
	nextID uint64
	rng    *rand.Rand
}

// New creates a harness over a fresh pool. seed fixes payload contents and
// random deletion order.
func New(opts *slab.Options, seed uint64) (*Harness, error) {
	pool, err := slab.NewPool[Object](opts)
	if err != nil {
		return nil, err
	}
	return &Harness{
		pool: pool,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Pool returns the underlying pool.
func (h *Harness) Pool() *slab.Pool[Object] { return h.pool }

// Objects returns the number of live objects.
func (h *Harness) Objects() int { return len(h.objs) }

// Arrays returns the number of live arrays.
func (h *Harness) Arrays() int { return len(h.arrs) }

// NewObjects allocates count objects. It stops at the first error; objects
// allocated before it stay live.
func (h *Harness) NewObjects(count int) error {
	for range count {
		p, err := h.pool.New()
		if err != nil {
			return err
		}
		h.fill(p)
		h.objs = append(h.objs, object{p: p, sum: digest(unsafe.Slice(p, 1))})
	}
	return nil
}

// NewArrays allocates count arrays of n objects each.
func (h *Harness) NewArrays(count, n int) error {
	for range count {
		s, err := h.pool.NewSlice(n)
		if err != nil {
			return err
		}
		elems := s.Elems()
		for i := range elems {
			h.fill(&elems[i])
		}
		h.arrs = append(h.arrs, array{s: s, sum: digest(elems)})
	}
	return nil
}

// DeleteObject frees the object at index i.
func (h *Harness) DeleteObject(i int) error {
	if i < 0 || i >= len(h.objs) {
		return fmt.Errorf("object index %d out of range [0,%d)", i, len(h.objs))
	}
	if err := h.pool.Delete(h.objs[i].p); err != nil {
		return err
	}
	h.objs = slices.Delete(h.objs, i, i+1)
	return nil
}

// DeleteArray frees the array at index i.
func (h *Harness) DeleteArray(i int) error {
	if i < 0 || i >= len(h.arrs) {
		return fmt.Errorf("array index %d out of range [0,%d)", i, len(h.arrs))
	}
	if err := h.pool.DeleteSlice(h.arrs[i].s); err != nil {
		return err
	}
	h.arrs = slices.Delete(h.arrs, i, i+1)
	return nil
}

// DeleteRandom frees up to count randomly chosen objects, or arrays when
// arrays is set. It returns how many were freed.
func (h *Harness) DeleteRandom(count int, arrays bool) (int, error) {
	del, live := h.DeleteObject, h.Objects
	if arrays {
		del, live = h.DeleteArray, h.Arrays
	}
	n := 0
	for n < count && live() > 0 {
		if err := del(h.rng.IntN(live())); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Reset forgets every live allocation and rewinds the pool. A rejected
// block size leaves everything live.
func (h *Harness) Reset(blockSize int) error {
	err := h.pool.Reset(blockSize)
	if errors.Is(err, slab.ErrContractViolation) {
		return err
	}
	h.objs = h.objs[:0]
	h.arrs = h.arrs[:0]
	return err
}

// Verify rehashes every live payload.
func (h *Harness) Verify() error {
	var errs []error
	for i, o := range h.objs {
		if digest(unsafe.Slice(o.p, 1)) != o.sum {
			errs = append(errs, fmt.Errorf("%w: object %d (id %d)", ErrCorrupt, i, o.p.ID))
		}
	}
	for i, a := range h.arrs {
		if digest(a.s.Elems()) != a.sum {
			errs = append(errs, fmt.Errorf("%w: array %d (len %d)", ErrCorrupt, i, a.s.Len()))
		}
	}
	return errors.Join(errs...)
}

// Print writes live counts followed by the pool report.
func (h *Harness) Print(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "=========== Objects: %d, Arrays: %d ===========\n", len(h.objs), len(h.arrs)); err != nil {
		return err
	}
	return h.pool.Diagnostics().WriteText(w)
}

// Close releases the pool.
func (h *Harness) Close() error {
	h.objs, h.arrs = nil, nil
	return h.pool.Close()
}

func (h *Harness) fill(p *Object) {
	h.nextID++
	p.ID = h.nextID
	for i := 0; i < len(p.Data); i += 8 {
		v := h.rng.Uint64()
		for j := range 8 {
			p.Data[i+j] = byte(v >> (8 * j))
		}
	}
}

func digest(objs []Object) uint64 {
	if len(objs) == 0 {
		return xxh3.Hash(nil)
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&objs[0])), len(objs)*int(unsafe.Sizeof(Object{})))
	return xxh3.Hash(b)
}
