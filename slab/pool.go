package slab

import (
	"reflect"
	"unsafe"

	"github.com/joshuapare/slabkit/internal/align"
)

// Pool is a typed handle over an Allocator whose element size is the size of
// T. One Pool serves every allocation of T for its owner; there is no hidden
// per-type global.
//
// T must not contain Go pointers (pointers, strings, slices, maps, channels,
// funcs or interfaces): block memory is not scanned by the garbage collector.
type Pool[T any] struct {
	a *Allocator
}

// Slice is an owned array of T from a Pool.
type Slice[T any] struct {
	arr Array
}

// NewPool creates a Pool for T.
func NewPool[T any](opts *Options) (*Pool[T], error) {
	typ := reflect.TypeFor[T]()
	if typ.Size() == 0 {
		return nil, contractf("type %v has zero size", typ)
	}
	if typ.Align() > align.WordSize {
		return nil, contractf("type %v needs %d-byte alignment, blocks give %d", typ, typ.Align(), align.WordSize)
	}
	if !pointerFree(typ) {
		return nil, contractf("type %v contains Go pointers", typ)
	}
	a, err := New(int(typ.Size()), opts)
	if err != nil {
		return nil, err
	}
	return &Pool[T]{a: a}, nil
}

// New returns a zeroed *T.
func (p *Pool[T]) New() (*T, error) {
	var zero T
	ptr, err := p.a.AllocScalar(int(unsafe.Sizeof(zero)))
	if err != nil {
		return nil, err
	}
	x := (*T)(ptr)
	*x = zero
	return x, nil
}

// Delete returns x to the pool. x must not be used afterwards.
func (p *Pool[T]) Delete(x *T) error {
	return p.a.FreeScalar(unsafe.Pointer(x))
}

// NewSlice returns n zeroed elements.
func (p *Pool[T]) NewSlice(n int) (Slice[T], error) {
	arr, err := p.a.AllocArray(n)
	if err != nil {
		return Slice[T]{}, err
	}
	s := Slice[T]{arr: arr}
	clear(s.Elems())
	return s, nil
}

// DeleteSlice returns s to the pool. s must not be used afterwards.
func (p *Pool[T]) DeleteSlice(s Slice[T]) error {
	return p.a.FreeArray(s.arr)
}

// Reset rewinds the pool; see Allocator.Reset.
func (p *Pool[T]) Reset(newBlockSize int) error { return p.a.Reset(newBlockSize) }

// Diagnostics returns the allocator report.
func (p *Pool[T]) Diagnostics() Report { return p.a.Diagnostics() }

// Stats returns the allocator counters.
func (p *Pool[T]) Stats() Stats { return p.a.Stats() }

// Close releases all pool memory.
func (p *Pool[T]) Close() error { return p.a.Close() }

// Allocator exposes the underlying untyped allocator.
func (p *Pool[T]) Allocator() *Allocator { return p.a }

// Len returns the number of elements.
func (s Slice[T]) Len() int { return s.arr.Len() }

// Elems returns the elements as a Go slice aliasing pool memory.
func (s Slice[T]) Elems() []T {
	if s.arr.IsEmpty() {
		return nil
	}
	return unsafe.Slice((*T)(s.arr.Data()), s.arr.Len())
}

// Array returns the untyped handle.
func (s Slice[T]) Array() Array { return s.arr }

// pointerFree reports whether values of t hold no pointers the garbage
// collector would need to trace.
func pointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || pointerFree(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !pointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
